package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	maxPublishers = 5
	maxFamilies   = 10
)

// deriveFields turns the decoded preload object into display fields. Field
// order is fixed; any key absent from the blob skips its field.
func deriveFields(data map[string]any) []Field {
	item, ok := mapValue(data, "item")
	if !ok {
		return nil
	}

	var fields []Field
	add := func(label, value string) {
		if value != "" {
			fields = append(fields, Field{Label: label, Value: value})
		}
	}

	add("Game", stringValue(item, "name"))
	add("Year", stringValue(item, "yearpublished"))
	if min, max := stringValue(item, "minplayers"), stringValue(item, "maxplayers"); min != "" && max != "" {
		add("Players", min+"-"+max)
	}
	if min, max := stringValue(item, "minplaytime"), stringValue(item, "maxplaytime"); min != "" && max != "" {
		add("Playtime", min+"-"+max+" minutes")
	}
	if age := stringValue(item, "minage"); age != "" {
		add("Age", age+"+")
	}
	add("Description", stringValue(item, "short_description"))

	if links, ok := mapValue(item, "links"); ok {
		add("Designers", joinNames(links, "boardgamedesigner", 0))
		add("Publishers", joinNames(links, "boardgamepublisher", maxPublishers))
		add("Categories", joinNames(links, "boardgamecategory", 0))
		add("Mechanisms", joinNames(links, "boardgamemechanic", 0))
		add("Families/Themes", joinNames(links, "boardgamefamily", maxFamilies))
	}

	if polls, ok := mapValue(item, "polls"); ok {
		if userplayers, ok := mapValue(polls, "userplayers"); ok {
			add("Best with", playerRange(userplayers["best"]))
		}
		if age, ok := polls["playerage"]; ok {
			add("Community suggested age", asString(age))
		}
		if weight, ok := mapValue(polls, "boardgameweight"); ok {
			avg, _ := numberValue(weight, "averageweight")
			add("Complexity (1-5)", fmt.Sprintf("%.2f", avg))
		}
	}

	return fields
}

// joinNames collects the "name" of each entry in the cross-reference list
// under key, joined with ", ". limit 0 means all entries.
func joinNames(links map[string]any, key string, limit int) string {
	entries, ok := links[key].([]any)
	if !ok {
		return ""
	}
	var names []string
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if name := asString(m["name"]); name != "" {
			names = append(names, name)
		}
		if limit > 0 && len(names) == limit {
			break
		}
	}
	return strings.Join(names, ", ")
}

// playerRange renders the community "best with" recommendation. Entries are
// either {min,max} objects or plain values.
func playerRange(v any) string {
	entries, ok := v.([]any)
	if !ok {
		return asString(v)
	}
	var parts []string
	for _, entry := range entries {
		if m, ok := entry.(map[string]any); ok {
			min, max := asString(m["min"]), asString(m["max"])
			switch {
			case min != "" && max != "" && min != max:
				parts = append(parts, min+"-"+max)
			case min != "":
				parts = append(parts, min)
			case max != "":
				parts = append(parts, max)
			}
			continue
		}
		if s := asString(entry); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func mapValue(m map[string]any, key string) (map[string]any, bool) {
	if m == nil {
		return nil, false
	}
	sub, ok := m[key].(map[string]any)
	return sub, ok
}

func stringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	return asString(m[key])
}

// asString renders a decoded JSON scalar. The blob mixes strings and
// numbers for the same kind of value depending on page vintage, so both
// are accepted.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func numberValue(m map[string]any, key string) (float64, bool) {
	switch t := m[key].(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
