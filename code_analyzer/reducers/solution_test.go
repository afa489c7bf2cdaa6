package reducers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolutionMembers(t *testing.T) {
	content := `Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio Version 17
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Api", "src\Api\Api.csproj", "{11111111}"
EndProject
	Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Domain", "src\Domain\Domain.csproj", "{22222222}"
EndProject
Global
	GlobalSection(SolutionConfigurationPlatforms) = preSolution
	EndGlobalSection
EndGlobal
`

	expected := `Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Api", "src\Api\Api.csproj", "{11111111}"
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Domain", "src\Domain\Domain.csproj", "{22222222}"`

	assert.Equal(t, expected, SolutionMembers{FallbackLines: 3}.Reduce(content))
}

func TestSolutionMembers_NoProjects(t *testing.T) {
	content := "Microsoft Visual Studio Solution File\nGlobal\nEndGlobal\nextra"
	assert.Equal(t, "Microsoft Visual Studio Solution File\nGlobal\n... (2 more lines truncated)", SolutionMembers{FallbackLines: 2}.Reduce(content))
	assert.Equal(t, "", SolutionMembers{FallbackLines: 2}.Reduce(""))
}
