package template

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/frherrer/mdconform/internal/domain"
)

// Data is passed to every fixture command template.
type Data struct {
	Variant  string
	Scenario string
	Name     string // "<variant>-<scenario>", usable in file names
	NoScan   bool
}

// Command is a compiled argument list; each argument is its own template.
type Command struct {
	name string
	args []*template.Template
}

// Compile parses every argument of a command line.
func Compile(name string, args []string) (*Command, error) {
	funcMap := CustomFuncMap()
	cmd := &Command{name: name}
	for i, arg := range args {
		tmpl, err := template.New(fmt.Sprintf("%s[%d]", name, i)).
			Funcs(funcMap).
			Option("missingkey=error").
			Parse(arg)
		if err != nil {
			return nil, domain.NewError("config", "", 0, fmt.Sprintf("failed to parse %s template %q", name, arg), err)
		}
		cmd.args = append(cmd.args, tmpl)
	}
	return cmd, nil
}

// Render executes every argument against data. Arguments that render to the
// empty string are dropped so templates like "{{if .NoScan}}--no-scan{{end}}"
// can be optional.
func (c *Command) Render(data Data) ([]string, error) {
	var out []string
	for _, tmpl := range c.args {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, domain.NewError("build", "", 0, fmt.Sprintf("failed to render %s", tmpl.Name()), err)
		}
		if buf.Len() > 0 {
			out = append(out, buf.String())
		}
	}
	return out, nil
}

// RenderOne renders a single-argument command and requires a result.
func (c *Command) RenderOne(data Data) (string, error) {
	args, err := c.Render(data)
	if err != nil {
		return "", err
	}
	if len(args) != 1 {
		return "", domain.NewError("build", "", 0, fmt.Sprintf("%s rendered to %d values, want 1", c.name, len(args)), nil)
	}
	return args[0], nil
}

// Len returns the number of argument templates.
func (c *Command) Len() int {
	return len(c.args)
}
