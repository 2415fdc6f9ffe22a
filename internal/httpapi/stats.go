package httpapi

import (
	"encoding/json"
	"sort"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/tournament"
)

// statsDocument is one entry in the exported JSON array: a typed envelope
// around the event's own payload fields, flattened to top level so a
// consumer sees {"$type":"goal","playerCapNumber":7,...} rather than a
// nested payload object.
type statsDocument map[string]interface{}

// statsDocuments converts buffered events to the exported JSON shape,
// sorted by occurredOn ascending.
func statsDocuments(events []tournament.Event) []statsDocument {
	sorted := append([]tournament.Event(nil), events...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OccurredOn.Before(sorted[j].OccurredOn)
	})

	docs := make([]statsDocument, 0, len(sorted))
	for _, e := range sorted {
		doc := flattenPayload(e.Payload)
		if doc == nil {
			continue
		}
		doc["$type"] = e.Type.String()
		doc["occurredOn"] = e.OccurredOn
		docs = append(docs, doc)
	}
	return docs
}

func flattenPayload(payload []byte) statsDocument {
	var doc statsDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil
	}
	return doc
}
