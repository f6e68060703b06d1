package audits

import (
	"context"
	"fmt"
	"sort"
	"time"

	"laportal/internal/domain/activity"
)

type memoryStore struct {
	records    map[string]AuditRecord
	seq        int
	lastFilter ListFilter
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]AuditRecord{}}
}

func (m *memoryStore) Create(_ context.Context, rec AuditRecord) (AuditRecord, error) {
	m.seq++
	rec.ID = fmt.Sprintf("a%d", m.seq)
	rec.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	rec.UpdatedAt = rec.CreatedAt
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memoryStore) Update(_ context.Context, rec AuditRecord) (AuditRecord, error) {
	if _, ok := m.records[rec.ID]; !ok {
		return AuditRecord{}, ErrNotFound
	}
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (AuditRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return AuditRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *memoryStore) List(_ context.Context, filter ListFilter) ([]AuditRecord, error) {
	m.lastFilter = filter
	out := make([]AuditRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memoryStore) Recent(_ context.Context, limit int) ([]AuditRecord, error) {
	out, _ := m.List(context.Background(), ListFilter{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) ExistsForTaskSellerDay(_ context.Context, taskID, sellerID string, day time.Time) (bool, error) {
	for _, rec := range m.records {
		if rec.TaskID == taskID && rec.SellerID == sellerID && rec.Date.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

type staticLabels map[string]string

func (l staticLabels) ActiveShopName(_ context.Context, sellerID string) (string, bool, error) {
	name, ok := l[sellerID]
	return name, ok, nil
}

type recordedActivity struct {
	entries []activity.Entry
}

func (r *recordedActivity) Record(_ context.Context, entry activity.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}
