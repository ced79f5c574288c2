package annotate

// Tool is the active pointer tool.
type Tool string

const (
	ToolSelect   Tool = "select"
	ToolMove     Tool = "move"
	ToolBounding Tool = "bounding"
)

// ParseTool maps a tool name to a Tool, reporting false for unknown names.
func ParseTool(s string) (Tool, bool) {
	switch t := Tool(s); t {
	case ToolSelect, ToolMove, ToolBounding:
		return t, true
	}
	return "", false
}

// Style is the label and colour given to new or relabelled boxes.
type Style struct {
	Label string
	Color string
}

// ToolSource reports the tool to apply to the next pointer event.
type ToolSource interface {
	Tool() Tool
}

// StyleSource reports the category currently picked.
type StyleSource interface {
	Style() Style
}

// Controls is a minimal tool selector and category picker. A tool can be
// held temporarily, for example while a pan key is down, and released back
// to the previous one.
type Controls struct {
	tool  Tool
	held  Tool
	style Style
}

// NewControls returns Controls starting on tool with the given style.
func NewControls(tool Tool, style Style) *Controls {
	if _, ok := ParseTool(string(tool)); !ok {
		tool = ToolSelect
	}
	return &Controls{tool: tool, style: style}
}

// Tool implements ToolSource.
func (c *Controls) Tool() Tool {
	if c.held != "" {
		return c.held
	}
	return c.tool
}

// SetTool changes the base tool.
func (c *Controls) SetTool(t Tool) {
	if _, ok := ParseTool(string(t)); ok {
		c.tool = t
	}
}

// Hold overrides the tool until Release is called.
func (c *Controls) Hold(t Tool) {
	c.held = t
}

// Release drops a held tool.
func (c *Controls) Release() {
	c.held = ""
}

// Style implements StyleSource.
func (c *Controls) Style() Style {
	return c.style
}

// SetStyle changes the picked category.
func (c *Controls) SetStyle(s Style) {
	c.style = s
}
