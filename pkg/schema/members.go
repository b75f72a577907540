package schema

import (
	"strings"

	"github.com/leapstack-labs/erdmark/pkg/core"
)

// visibilityMarkers are the UML visibility prefixes.
const visibilityMarkers = "+-#~"

// keyMarkers are ER attribute key constraints. Only PK and PPK make an
// attribute part of the entity key.
var keyMarkers = map[string]core.KeyKind{
	"PK":  core.KeyPrimary,
	"PPK": core.KeyPartial,
	"FK":  core.KeyNone,
	"UK":  core.KeyNone,
}

// addMember classifies a member declaration and adds it to e. Methods are
// recognized by their parameter list.
func addMember(e *core.Entity, raw string) {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "%%") {
		return
	}
	if strings.Contains(text, "(") {
		if m, ok := parseMethod(text); ok {
			e.AddMethod(m)
		}
		return
	}
	if a, ok := parseAttribute(text); ok {
		e.AddAttribute(a)
	}
}

// parseMethod handles "+name(a, b): Ret", "+name(a) Ret" and "+Ret name(a)".
func parseMethod(text string) (core.Method, bool) {
	var m core.Method
	if strings.ContainsAny(text[:1], visibilityMarkers) {
		m.Visibility = text[:1]
		text = strings.TrimSpace(text[1:])
	}

	open := strings.IndexByte(text, '(')
	closeIdx := strings.LastIndexByte(text, ')')
	if open <= 0 || closeIdx < open {
		return m, false
	}

	before := strings.Fields(text[:open])
	if len(before) == 0 {
		return m, false
	}
	m.Name = before[len(before)-1]
	if len(before) > 1 {
		m.ReturnType = strings.Join(before[:len(before)-1], " ")
	}

	for _, p := range strings.Split(text[open+1:closeIdx], ",") {
		if p = strings.TrimSpace(p); p != "" {
			m.Parameters = append(m.Parameters, p)
		}
	}

	// $ and * are static/abstract classifiers
	after := strings.TrimSpace(strings.TrimRight(text[closeIdx+1:], "$* \t"))
	after = strings.TrimSpace(strings.TrimPrefix(after, ":"))
	if after != "" {
		m.ReturnType = after
	}
	return m, true
}

// parseAttribute handles "-name: Type", "Type name [PK|FK]", "name{PK}" and
// bare "name". The returned name drops the type and key markers.
func parseAttribute(text string) (core.Attribute, bool) {
	if strings.ContainsAny(text[:1], visibilityMarkers) {
		text = strings.TrimSpace(text[1:])
	}

	if strings.Contains(text, core.PrimaryKeyToken) || strings.Contains(text, core.PartialKeyToken) {
		a := core.ParseAttribute(text)
		if i := strings.IndexByte(a.Name, ':'); i >= 0 {
			a.Name = strings.TrimSpace(a.Name[:i])
		}
		return a, a.Name != ""
	}

	if i := strings.IndexByte(text, ':'); i >= 0 {
		name := strings.TrimSpace(text[:i])
		return core.Attribute{Name: name}, name != ""
	}

	text = commentPattern.ReplaceAllString(text, "")
	fields := strings.Fields(strings.ReplaceAll(text, ",", " "))

	key := core.KeyNone
	for len(fields) > 0 {
		k, ok := keyMarkers[strings.ToUpper(fields[len(fields)-1])]
		if !ok {
			break
		}
		if k.IsKey() && key == core.KeyNone {
			key = k
		}
		fields = fields[:len(fields)-1]
	}
	if len(fields) == 0 {
		return core.Attribute{}, false
	}
	return core.Attribute{Name: fields[len(fields)-1], Key: key}, true
}
