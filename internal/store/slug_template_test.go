package store

import (
	"testing"

	"slugpress/internal/models"
)

func TestSlugTemplateStore_CRUD(t *testing.T) {
	db := testDB(t)
	s := NewSlugTemplateStore(db)
	t.Cleanup(func() { cleanSlugTemplates(t, db, "store-test-type") })

	// Missing configuration is nil, not an error.
	got, err := s.FindByType("store-test-type")
	if err != nil {
		t.Fatalf("FindByType: %v", err)
	}
	if got != nil {
		t.Fatalf("FindByType = %+v, want nil", got)
	}

	created, err := s.Upsert(&models.SlugTemplate{
		ItemType: "store-test-type",
		Template: "{date|Y}-{title}",
		Enabled:  true,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created.Template != "{date|Y}-{title}" || !created.Enabled {
		t.Errorf("Upsert = %+v", created)
	}

	// Upsert over an existing row replaces template and enabled flag.
	updated, err := s.Upsert(&models.SlugTemplate{
		ItemType: "store-test-type",
		Template: "{title|lower}",
		Enabled:  false,
	})
	if err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	if updated.Template != "{title|lower}" || updated.Enabled {
		t.Errorf("Upsert(update) = %+v", updated)
	}

	got, err = s.FindByType("store-test-type")
	if err != nil {
		t.Fatalf("FindByType: %v", err)
	}
	if got == nil || got.Template != "{title|lower}" {
		t.Errorf("FindByType = %+v, want updated template", got)
	}

	if err := s.Delete("store-test-type"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = s.FindByType("store-test-type")
	if err != nil {
		t.Fatalf("FindByType after delete: %v", err)
	}
	if got != nil {
		t.Errorf("FindByType after delete = %+v, want nil", got)
	}
}
