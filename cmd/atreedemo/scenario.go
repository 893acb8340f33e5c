package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/mrayva/a-tree"
)

// scenario is the JSON document atreedemo reads: attribute declarations,
// subscriptions to install, and events to search with. Decoding goes
// through ojg/oj's dynamic parse tree (map[string]any / []any) rather
// than a struct tag unmarshal, matching the generic-node style the
// engine's own corpus uses ojg for (JSONPath walks over parsed
// documents) rather than reflection-based binding.
type scenario struct {
	Attributes    []attrSpec
	Subscriptions []subSpec
	Events        []eventSpec
}

type attrSpec struct {
	Name string
	Type string
}

type subSpec struct {
	ID   uint64
	Expr string
}

type eventSpec struct {
	Name   string
	Values map[string]any
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	root, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("scenario %s: expected a top-level JSON object", path)
	}

	sc := &scenario{}

	for _, raw := range asSlice(root["attributes"]) {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("scenario %s: malformed attribute entry", path)
		}
		sc.Attributes = append(sc.Attributes, attrSpec{
			Name: asString(m["name"]),
			Type: asString(m["type"]),
		})
	}

	for _, raw := range asSlice(root["subscriptions"]) {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("scenario %s: malformed subscription entry", path)
		}
		sc.Subscriptions = append(sc.Subscriptions, subSpec{
			ID:   asUint64(m["id"]),
			Expr: asString(m["expr"]),
		})
	}

	for _, raw := range asSlice(root["events"]) {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("scenario %s: malformed event entry", path)
		}
		values, _ := m["values"].(map[string]any)
		sc.Events = append(sc.Events, eventSpec{
			Name:   asString(m["name"]),
			Values: values,
		})
	}

	return sc, nil
}

// buildTree declares every attribute and installs every subscription from
// sc into a fresh Tree, using InsertBatch (C12) so multi-subscription
// scenarios exercise the same parallel-parse path a bulk loader would.
func buildTree(sc *scenario) (*atree.Tree, error) {
	defs := make([]atree.AttrDef, 0, len(sc.Attributes))
	for _, a := range sc.Attributes {
		typ, err := parseAttrType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		defs = append(defs, atree.AttrDef{Name: a.Name, Type: typ})
	}

	tree, err := atree.New(defs)
	if err != nil {
		return nil, err
	}

	items := make([]atree.BatchInsertion, 0, len(sc.Subscriptions))
	for _, s := range sc.Subscriptions {
		items = append(items, atree.BatchInsertion{ID: s.ID, Source: s.Expr})
	}
	if err := tree.InsertBatch(items); err != nil {
		return nil, err
	}

	return tree, nil
}

// buildEvent resolves a scenario event's raw JSON values against a
// freshly made EventBuilder, dispatching on each attribute's declared
// type since the JSON document itself carries no type tags.
func buildEvent(tree *atree.Tree, sc *scenario, ev eventSpec) (*atree.EventBuilder, error) {
	eb := tree.MakeEvent()

	declared := make(map[string]string, len(sc.Attributes))
	for _, a := range sc.Attributes {
		declared[a.Name] = a.Type
	}

	for name, raw := range ev.Values {
		typ, ok := declared[name]
		if !ok {
			return nil, fmt.Errorf("event %q: undeclared attribute %q", ev.Name, name)
		}

		var err error
		switch typ {
		case "bool":
			b, _ := raw.(bool)
			err = eb.WithBool(name, b)
		case "i64":
			err = eb.WithInt(name, asInt64(raw))
		case "decimal":
			var dec atree.Decimal
			dec, err = parseDecimalJSON(raw)
			if err == nil {
				err = eb.WithDecimal(name, dec)
			}
		case "string":
			err = eb.WithString(name, asString(raw))
		case "set<string>":
			err = eb.WithStringSet(name, asStringSlice(raw))
		case "set<i64>":
			err = eb.WithIntSet(name, asInt64Slice(raw))
		default:
			err = fmt.Errorf("unknown attribute type %q", typ)
		}
		if err != nil {
			return nil, fmt.Errorf("event %q, attribute %q: %w", ev.Name, name, err)
		}
	}

	return eb, nil
}

func parseAttrType(s string) (atree.AttrType, error) {
	switch s {
	case "bool":
		return atree.AttrBool, nil
	case "i64":
		return atree.AttrInt, nil
	case "decimal":
		return atree.AttrDecimal, nil
	case "string":
		return atree.AttrString, nil
	case "set<string>":
		return atree.AttrStringSet, nil
	case "set<i64>":
		return atree.AttrIntSet, nil
	default:
		return 0, fmt.Errorf("unknown attribute type %q", s)
	}
}

// parseDecimalJSON accepts a decimal either as a JSON number (scale 0
// unless it carries a fractional part) or as a JSON string (e.g. "50.00").
// Either way the result goes through NewDecimal, so trailing zeros are
// folded into the scale ("50.00" becomes {Mantissa: 50, Scale: 0}).
func parseDecimalJSON(raw any) (atree.Decimal, error) {
	switch v := raw.(type) {
	case string:
		return parseDecimalString(v)
	case float64:
		return parseDecimalString(strconv.FormatFloat(v, 'f', -1, 64))
	case int64:
		return atree.NewDecimal(v, 0), nil
	default:
		return atree.Decimal{}, fmt.Errorf("expected a decimal number or string, got %T", raw)
	}
}

func parseDecimalString(s string) (atree.Decimal, error) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	scale := uint32(0)
	digits := whole
	if hasFrac {
		scale = uint32(len(frac))
		digits = whole + frac
	}
	mantissa, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return atree.Decimal{}, fmt.Errorf("malformed decimal %q: %w", s, err)
	}
	if neg {
		mantissa = -mantissa
	}
	return atree.NewDecimal(mantissa, scale), nil
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asUint64(v any) uint64 {
	switch n := v.(type) {
	case float64:
		return uint64(n)
	case int64:
		return uint64(n)
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	default:
		return 0
	}
}

func asStringSlice(v any) []string {
	items := asSlice(v)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, asString(it))
	}
	return out
}

func asInt64Slice(v any) []int64 {
	items := asSlice(v)
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, asInt64(it))
	}
	return out
}
