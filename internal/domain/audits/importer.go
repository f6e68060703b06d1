package audits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/earnings"
)

var completeTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseSPXExport splits the automation export into raw task entries. Only a
// top-level JSON array is accepted; malformed entries are reported per task
// by ImportSPX.
func ParseSPXExport(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected an array of tasks", ErrInvalidImport)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return entries, nil
}

// ImportSPX creates one SPX record per (task, sender) of every Done task.
// Existing (task, seller, day) records are skipped and listed as duplicates.
func (s *Service) ImportSPX(ctx context.Context, actorID string, entries []json.RawMessage) (ImportResult, error) {
	result := ImportResult{TotalTasks: len(entries)}
	var errs, dups []string
	importedAt := s.now()
	note := importNotePrefix + importedAt.UTC().Format(time.RFC3339)

	for _, raw := range entries {
		if err := ctx.Err(); err != nil {
			return finishImport(result, errs, dups), err
		}

		var task SPXTask
		if err := json.Unmarshal(raw, &task); err != nil {
			errs = append(errs, fmt.Sprintf("Task unknown: %v", err))
			result.ErrorCount++
			continue
		}
		if task.ReceiveTaskID == "" || task.SenderData == nil || task.Status == "" {
			id := task.ReceiveTaskID
			if id == "" {
				id = "unknown"
			}
			errs = append(errs, "Task missing required fields: "+id)
			result.ErrorCount++
			continue
		}
		if task.Status != ImportStatusDone {
			result.SkippedCount++
			continue
		}

		day := earnings.CalendarDay(parseCompleteTime(task.CompleteTime, importedAt))
		for _, sellerID := range sortedSenders(task.SenderData) {
			count, err := parseTrackingCount(task.SenderData[sellerID])
			if err != nil {
				errs = append(errs, fmt.Sprintf("Task %s, Sender %s: %v", task.ReceiveTaskID, sellerID, err))
				result.ErrorCount++
				continue
			}
			if count == 0 {
				continue
			}

			exists, err := s.Store.ExistsForTaskSellerDay(ctx, task.ReceiveTaskID, sellerID, day)
			if err != nil {
				return finishImport(result, errs, dups), err
			}
			if exists {
				dups = append(dups, fmt.Sprintf("%s - Sender: %s", task.ReceiveTaskID, sellerID))
				result.SkippedCount++
				continue
			}

			rec, err := s.build(ctx, Input{
				Courier:             string(earnings.CourierSPX),
				Date:                day,
				TaskID:              task.ReceiveTaskID,
				SellerID:            sellerID,
				ShopID:              sellerID,
				NumberOfParcels:     count,
				HandedOverWithinSLA: true,
				Penalties:           decimal.Zero,
				Notes:               note,
			})
			if err == nil {
				rec.CreatedBy = actorID
				_, err = s.Store.Create(ctx, rec)
			}
			if err != nil {
				errs = append(errs, fmt.Sprintf("Task %s, Sender %s: %v", task.ReceiveTaskID, sellerID, err))
				result.ErrorCount++
				continue
			}
			result.ImportedCount++
		}
	}

	s.Metrics.Add(metricTasksImported, result.ImportedCount)
	s.Metrics.Add(metricAuditsComputed, result.ImportedCount)
	out := finishImport(result, errs, dups)
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionImport,
		EntityType: activity.EntityAudit,
		After:      out,
	})
	return out, nil
}

func finishImport(result ImportResult, errs, dups []string) ImportResult {
	result.HasMoreErrors = len(errs) > importPreviewLimit
	result.HasMoreDuplicates = len(dups) > importPreviewLimit
	result.Errors = firstN(errs, importPreviewLimit)
	result.Duplicates = firstN(dups, importPreviewLimit)
	return result
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		return []string{}
	}
	return items
}

func sortedSenders(data map[string]json.RawMessage) []string {
	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// parseCompleteTime falls back to now for empty, "N/A" or unparseable values.
func parseCompleteTime(raw string, now time.Time) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "N/A") {
		return now
	}
	for _, layout := range completeTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return now
}

// parseTrackingCount accepts a JSON number or a numeric string. null, false and
// empty strings count as zero.
func parseTrackingCount(raw json.RawMessage) (int, error) {
	value := strings.TrimSpace(string(raw))
	switch value {
	case "", "null", "false":
		return 0, nil
	}
	if unquoted, err := strconv.Unquote(value); err == nil {
		value = strings.TrimSpace(unquoted)
		if value == "" {
			return 0, nil
		}
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tracking count %q", value)
	}
	return int(n), nil
}
