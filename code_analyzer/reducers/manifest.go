package reducers

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// ManifestEssentials extracts target frameworks, project references and
// package references from MSBuild project files (.csproj, .props, ...).
type ManifestEssentials struct {
	FallbackLines int
}

type packageReference struct {
	name    string
	version string
}

type manifest struct {
	frameworks []string
	projects   []string
	packages   []*packageReference
}

func (m ManifestEssentials) Reduce(content string) string {
	parsed, err := parseManifest(content)
	if err != nil || (len(parsed.frameworks) == 0 && len(parsed.projects) == 0 && len(parsed.packages) == 0) {
		return TruncateLines(content, m.FallbackLines)
	}

	var lines []string
	if len(parsed.frameworks) > 0 {
		lines = append(lines, "TargetFramework: "+strings.Join(parsed.frameworks, ";"))
	}
	if len(parsed.projects) > 0 {
		lines = append(lines, "ProjectReferences:")
		for _, project := range parsed.projects {
			lines = append(lines, "  "+project)
		}
	}
	if len(parsed.packages) > 0 {
		lines = append(lines, "PackageReferences:")
		for _, pkg := range parsed.packages {
			if pkg.version == "" {
				lines = append(lines, "  "+pkg.name)
				continue
			}
			lines = append(lines, "  "+pkg.name+" "+pkg.version)
		}
	}
	return strings.Join(lines, "\n")
}

// parseManifest walks the XML token stream. Element names are compared by
// local name so both SDK-style and legacy namespaced projects work.
func parseManifest(content string) (*manifest, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	result := &manifest{}

	var current *packageReference
	var versionFromAttribute bool

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "TargetFramework", "TargetFrameworks":
				var value string
				if err := decoder.DecodeElement(&value, &element); err != nil {
					return nil, err
				}
				for _, framework := range strings.Split(value, ";") {
					if framework = strings.TrimSpace(framework); framework != "" {
						result.frameworks = append(result.frameworks, framework)
					}
				}
			case "ProjectReference":
				if include := attribute(element, "Include"); include != "" {
					result.projects = append(result.projects, include)
				}
			case "PackageReference", "PackageVersion":
				name := attribute(element, "Include")
				if name == "" {
					name = attribute(element, "Update")
				}
				if name == "" {
					continue
				}
				current = &packageReference{name: name, version: attribute(element, "Version")}
				versionFromAttribute = current.version != ""
				result.packages = append(result.packages, current)
			case "Version":
				if current == nil {
					continue
				}
				var value string
				if err := decoder.DecodeElement(&value, &element); err != nil {
					return nil, err
				}
				// The attribute wins when both forms are present
				if !versionFromAttribute {
					current.version = strings.TrimSpace(value)
				}
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "PackageReference", "PackageVersion":
				current = nil
				versionFromAttribute = false
			}
		}
	}

	return result, nil
}

func attribute(element xml.StartElement, name string) string {
	for _, attr := range element.Attr {
		if strings.EqualFold(attr.Name.Local, name) {
			return strings.TrimSpace(attr.Value)
		}
	}
	return ""
}
