package smartschool

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// RawElement is the dynamic form of one selected response node: field
// name to string, nested RawElement, []any of either, or nil for an
// empty tag. it only lives between parsing and record mapping.
type RawElement = map[string]any

// selects every node matching the path expression (e.g. ".//lesson")
// and converts each one to a RawElement. zero matches yield an empty
// slice, unparseable XML yields MalformedResponse.
func parseElements(raw []byte, selector string) ([]RawElement, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = false
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: %s", MalformedResponse, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: document has no root element", MalformedResponse)
	}

	nodes := doc.FindElements(selector)
	out := make([]RawElement, 0, len(nodes))
	for _, n := range nodes {
		el, ok := convertNode(n).(RawElement)
		if !ok {
			el = RawElement{}
		}
		out = append(out, el)
	}
	return out, nil
}

// a childless node with text becomes that text, a childless node
// without text becomes nil, anything else becomes a mapping where
// attributes convert as plain keys, children override them, and a
// repeated child tag collects into a []any in document order.
func convertNode(e *etree.Element) any {
	children := e.ChildElements()
	if len(children) == 0 && len(e.Attr) == 0 {
		text := strings.TrimSpace(e.Text())
		if text == "" {
			return nil
		}
		return text
	}

	out := RawElement{}
	for _, a := range e.Attr {
		out[a.Key] = a.Value
	}

	seen := map[string]int{}
	for _, c := range children {
		converted := convertNode(c)
		switch seen[c.Tag] {
		case 0:
			out[c.Tag] = converted
		case 1:
			out[c.Tag] = []any{out[c.Tag], converted}
		default:
			out[c.Tag] = append(out[c.Tag].([]any), converted)
		}
		seen[c.Tag]++
	}
	return out
}
