package cmdline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain", `/c main.cpp /Zi`, []string{`/c`, `main.cpp`, `/Zi`}},
		{"quoted run", `/I"inc dir" /Tc foo.c /Fosubdir\foo.obj`, []string{`/I"inc dir"`, `/Tc`, `foo.c`, `/Fosubdir\foo.obj`}},
		{"standalone quoted", `a "b c" d`, []string{`a`, `"b c"`, `d`}},
		{"escaped quote stays inside run", `/D"X=\"1 2\"" y`, []string{`/D"X=\"1 2\""`, `y`}},
		{"escaped backslash before quote", `a\\" b c" d`, []string{`a\\" b c"`, `d`}},
		{"trailing directory separator", `/Fo"x64\Debug\\" /c`, []string{`/Fo"x64\Debug\\"`, `/c`}},
		{"line breaks", "/c\r\na.cpp\nb.cpp\rc.cpp", []string{`/c`, `a.cpp`, `b.cpp`, `c.cpp`}},
		{"tabs and runs of spaces", "a\t\t b   c", []string{`a`, `b`, `c`}},
		{"trailing backslash", `a\`, []string{`a\`}},
		{"unterminated quote", `a "b c`, []string{`a`, `"b c`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize(" \r\n\t "))
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`plain.cpp`, `plain.cpp`},
		{`C:\src\a.cpp`, `C:\src\a.cpp`},
		{`"C:\My Src\main.cpp"`, `C:\My Src\main.cpp`},
		{`C:\"My Src"\main.cpp`, `C:\My Src\main.cpp`},
		{`a\"b.c`, `a"b.c`},
		{`"dir\\"`, `dir\`},
		{`x\\\"y`, `x\"y`},
		{`""`, ``},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Unquote(tt.input), "Unquote(%q)", tt.input)
	}
}
