// Package store persists the favorites document: every entry and group,
// saved together as one JSON document.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/domain"
)

// EntryRecord is the persisted shape of a domain.Entry.
type EntryRecord struct {
	AssetPath        string `json:"assetPath"`
	AssetName        string `json:"assetName"`
	AssetType        string `json:"assetType"`
	AssetGUID        string `json:"assetGuid"`
	GroupID          string `json:"groupId"`
	DateAddedTicks   int64  `json:"dateAddedTicks"`
	DateUpdatedTicks int64  `json:"dateUpdatedTicks"`
}

// GroupRecord is the persisted shape of a domain.Group.
type GroupRecord struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	IsCollapsed      bool   `json:"isCollapsed"`
	DateCreatedTicks int64  `json:"dateCreatedTicks"`
	SortOrder        int    `json:"sortOrder"`
}

// Document is the root of the persisted state.
type Document struct {
	Favorites []EntryRecord `json:"favorites"`
	Groups    []GroupRecord `json:"groups"`
}

// Store loads and saves the document. Load returns (nil, nil) when nothing
// has been persisted yet.
type Store interface {
	Load() (*Document, error)
	Save(doc *Document) error
	// Location describes where the document lives, for logs.
	Location() string
}

// Encode renders doc as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		doc = &Document{}
	}
	normalized := Document{Favorites: doc.Favorites, Groups: doc.Groups}
	if normalized.Favorites == nil {
		normalized.Favorites = []EntryRecord{}
	}
	if normalized.Groups == nil {
		normalized.Groups = []GroupRecord{}
	}
	data, err := json.MarshalIndent(normalized, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal favorites document: %w", err)
	}
	return data, nil
}

// Decode parses a document. Missing arrays decode as empty lists.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse favorites document: %w", err)
	}
	if doc.Favorites == nil {
		doc.Favorites = []EntryRecord{}
	}
	if doc.Groups == nil {
		doc.Groups = []GroupRecord{}
	}
	return &doc, nil
}

// FromDomain builds the document for entries and groups.
func FromDomain(entries []domain.Entry, groups []domain.Group) *Document {
	doc := &Document{
		Favorites: make([]EntryRecord, 0, len(entries)),
		Groups:    make([]GroupRecord, 0, len(groups)),
	}
	for _, e := range entries {
		doc.Favorites = append(doc.Favorites, EntryRecord{
			AssetPath:        e.Path,
			AssetName:        e.Name,
			AssetType:        e.Kind,
			AssetGUID:        e.StableID,
			GroupID:          e.GroupID,
			DateAddedTicks:   domain.ToTicks(e.DateAdded),
			DateUpdatedTicks: domain.ToTicks(e.DateUpdated),
		})
	}
	for _, g := range groups {
		doc.Groups = append(doc.Groups, GroupRecord{
			ID:               g.ID,
			Name:             g.Name,
			IsCollapsed:      g.Collapsed,
			DateCreatedTicks: domain.ToTicks(g.DateCreated),
			SortOrder:        g.SortOrder,
		})
	}
	return doc
}

// ToDomain converts the document back. Unset (zero) timestamps become now,
// and DateUpdated is never earlier than DateAdded.
func (d *Document) ToDomain(now time.Time) ([]domain.Entry, []domain.Group) {
	if d == nil {
		return []domain.Entry{}, []domain.Group{}
	}

	entries := make([]domain.Entry, 0, len(d.Favorites))
	for _, r := range d.Favorites {
		added := domain.TicksOrNow(r.DateAddedTicks, now)
		updated := added
		if r.DateUpdatedTicks != 0 {
			updated = domain.FromTicks(r.DateUpdatedTicks)
		}
		if updated.Before(added) {
			updated = added
		}
		entries = append(entries, domain.Entry{
			StableID:    r.AssetGUID,
			Path:        r.AssetPath,
			Name:        r.AssetName,
			Kind:        r.AssetType,
			GroupID:     r.GroupID,
			DateAdded:   added,
			DateUpdated: updated,
		})
	}

	groups := make([]domain.Group, 0, len(d.Groups))
	for _, r := range d.Groups {
		groups = append(groups, domain.Group{
			ID:          r.ID,
			Name:        r.Name,
			Collapsed:   r.IsCollapsed,
			DateCreated: domain.TicksOrNow(r.DateCreatedTicks, now),
			SortOrder:   r.SortOrder,
		})
	}

	return entries, groups
}
