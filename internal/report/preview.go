package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dbsmedya/keyprofiler/internal/profiler"
)

// PreviewText renders a sample's preview on one line.
func PreviewText(rec profiler.SampleRecord) string {
	pv := rec.Preview
	if pv.Error != "" {
		return "preview unavailable: " + pv.Error
	}

	var body string
	switch rec.Shape {
	case profiler.ShapeScalar:
		body = scalarText(pv)
	case profiler.ShapeMap:
		parts := make([]string, len(pv.Fields))
		for i, fl := range pv.Fields {
			parts[i] = fmt.Sprintf("%s: %s", fl.Name, fl.Value)
		}
		body = "{" + strings.Join(parts, ", ") + "}"
	case profiler.ShapeList, profiler.ShapeSet:
		body = "[" + strings.Join(pv.Items, ", ") + "]"
	case profiler.ShapeOrderedSet:
		parts := make([]string, len(pv.Members))
		for i, m := range pv.Members {
			parts[i] = fmt.Sprintf("%s (%g)", m.Member, m.Score)
		}
		body = "[" + strings.Join(parts, ", ") + "]"
	case profiler.ShapeAppendLog:
		if pv.Length == 0 {
			body = "empty"
		} else {
			body = fmt.Sprintf("entries %s .. %s", pv.FirstID, pv.LastID)
		}
	default:
		return pv.Note
	}

	if pv.Truncated {
		return fmt.Sprintf("%s (%d total)", body, pv.Length)
	}
	return body
}

func scalarText(pv profiler.Preview) string {
	if pv.Encoding == profiler.EncodingJSON {
		b, err := json.Marshal(pv.Value)
		if err == nil {
			return string(b)
		}
	}
	return pv.Text
}
