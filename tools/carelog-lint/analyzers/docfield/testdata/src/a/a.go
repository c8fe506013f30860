package a

import "entities"

func bad(doc entities.Document) {
	_ = doc["startedAt"] // want `use entities.FieldStartedAt instead of "startedAt"`
	doc["id"] = "s-1"    // want `use entities.FieldID instead of "id"`
}

func good(doc entities.Document, legacy map[string]any) {
	_ = doc[entities.FieldStartedAt]
	// Keys without a constant are left alone
	_ = doc["_seconds"]
	// Plain maps are not documents
	_ = legacy["startedAt"]
}
