package reducers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripWithPatterns(t *testing.T) {
	content := `namespace Shop;
using System;
[Serializable]
public class Foo : Bar
{
    private int _x;
    public int Count { get; private set; }
    public string Name => _name;
    public void Run(int a,
        int b)
    {
        DoWork();
    }
    internal const int Max = 3;
    protected virtual void Hook() { }
}
private class Hidden
{
}`

	expected := `public class Foo : Bar
    public int Count { get; private set; }
    public string Name { get; }
    public void Run(int a, int b);
    internal const int Max = 3;`

	out, ok := stripWithPatterns(content)
	assert.True(t, ok)
	assert.Equal(t, expected, out)
}

func TestStripWithPatterns_AutoPropertyDefaults(t *testing.T) {
	out, ok := stripWithPatterns("public int Id {\n}")
	assert.True(t, ok)
	assert.Equal(t, "public int Id { get; set; }", out)

	out, ok = stripWithPatterns("public int Id { get; init; }")
	assert.True(t, ok)
	assert.Equal(t, "public int Id { get; init; }", out)
}

func TestStripWithPatterns_NothingRecognized(t *testing.T) {
	out, ok := stripWithPatterns("// just a comment\nvar x = 1;\n\nprivate void Helper() { }")
	assert.False(t, ok)
	assert.Empty(t, out)
}
