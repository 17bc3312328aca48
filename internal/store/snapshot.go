package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/model"
)

// Snapshot maps each versioned record key to its JSON blob. Collections are
// JSON arrays in storage order; the current-user record is a single object.
type Snapshot map[string]string

// ImportReport summarizes what Import accepted and what it discarded.
type ImportReport struct {
	// Counts holds the number of records written per key.
	Counts map[string]int

	// Warnings lists every blob or record that was skipped.
	Warnings []string
}

func (r *ImportReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Export serializes every collection and the current-user record. The
// auth token lives in the credential keyring and is never exported.
func (s *SQLiteStore) Export(ctx context.Context) (Snapshot, error) {
	snap := make(Snapshot)

	users, err := s.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := s.selectComments(ctx, `
		SELECT id, task_id, user_id, user_name, text, created_at
		FROM comments ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	activities, err := s.selectActivities(ctx, `
		SELECT id, project_id, user_id, user_name, action, target_name, created_at
		FROM activities ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}

	for key, v := range map[string]any{
		KeyUsers:      users,
		KeyProjects:   projects,
		KeyTasks:      tasks,
		KeyComments:   comments,
		KeyActivities: activities,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", key, err)
		}
		snap[key] = string(b)
	}

	values, err := s.listValues(ctx)
	if err != nil {
		return nil, err
	}
	if current, ok := values[KeyCurrentUser]; ok {
		snap[KeyCurrentUser] = current
	}
	return snap, nil
}

// Import replaces the collections present in snap. Each blob is decoded
// record by record: a blob that is not a JSON array counts as an empty
// collection and a record that does not decode is skipped. Both cases are
// logged and reported, never returned as errors. Keys absent from snap
// leave the stored collection untouched.
func (s *SQLiteStore) Import(ctx context.Context, snap Snapshot) (ImportReport, error) {
	report := ImportReport{Counts: make(map[string]int)}

	users := decodeRecords[model.User](s, &report, snap, KeyUsers)
	projects := decodeRecords[model.Project](s, &report, snap, KeyProjects)
	tasks := decodeRecords[model.Task](s, &report, snap, KeyTasks)
	comments := decodeRecords[model.Comment](s, &report, snap, KeyComments)
	activities := decodeRecords[model.Activity](s, &report, snap, KeyActivities)

	if _, ok := snap[KeyAuthToken]; ok {
		report.warn("%s: ignored, tokens are issued on sign-in", KeyAuthToken)
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if users != nil {
			if err := replace(ctx, tx, "users"); err != nil {
				return err
			}
			for _, u := range *users {
				if _, err := upsertUser(ctx, tx, u); err != nil {
					return err
				}
			}
			report.Counts[KeyUsers] = len(*users)
		}
		if projects != nil {
			if err := replace(ctx, tx, "projects"); err != nil {
				return err
			}
			for _, p := range *projects {
				if _, err := upsertProject(ctx, tx, p); err != nil {
					return err
				}
			}
			report.Counts[KeyProjects] = len(*projects)
		}
		if tasks != nil {
			if err := replace(ctx, tx, "tasks"); err != nil {
				return err
			}
			for _, t := range *tasks {
				if _, err := upsertTask(ctx, tx, t); err != nil {
					return err
				}
			}
			report.Counts[KeyTasks] = len(*tasks)
		}
		if comments != nil {
			if err := replace(ctx, tx, "comments"); err != nil {
				return err
			}
			for _, c := range *comments {
				if err := appendComment(ctx, tx, c); err != nil {
					return err
				}
			}
			report.Counts[KeyComments] = len(*comments)
		}
		if activities != nil {
			if err := replace(ctx, tx, "activities"); err != nil {
				return err
			}
			for _, a := range *activities {
				if err := appendActivity(ctx, tx, a, 0); err != nil {
					return err
				}
			}
			report.Counts[KeyActivities] = len(*activities)
		}

		if raw, ok := snap[KeyCurrentUser]; ok {
			var u model.User
			if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
				report.warn("%s: not a user record, signed out", KeyCurrentUser)
				s.logger.Warn("discarding corrupt current user record", zap.Error(err))
				_, err := tx.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", KeyCurrentUser)
				return err
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				KeyCurrentUser, raw)
			if err != nil {
				return fmt.Errorf("importing %s: %w", KeyCurrentUser, err)
			}
			report.Counts[KeyCurrentUser] = 1
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, fmt.Errorf("importing snapshot: %w", err)
	}

	s.logger.Info("snapshot imported",
		zap.Any("counts", report.Counts), zap.Int("warnings", len(report.Warnings)))
	return report, nil
}

// decodeRecords returns nil when key is absent from snap. Otherwise it
// returns the decodable, valid records, skipping duplicates by ID.
func decodeRecords[T any](s *SQLiteStore, report *ImportReport, snap Snapshot, key string) *[]T {
	raw, ok := snap[key]
	if !ok {
		return nil
	}

	out := []T{}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		report.warn("%s: not a JSON array, imported as empty", key)
		s.logger.Warn("discarding corrupt snapshot blob", zap.String("key", key), zap.Error(err))
		return &out
	}

	seen := make(map[string]bool, len(elems))
	for i, elem := range elems {
		var rec T
		if err := json.Unmarshal(elem, &rec); err != nil {
			report.warn("%s[%d]: %v", key, i, err)
			s.logger.Warn("skipping corrupt snapshot record",
				zap.String("key", key), zap.Int("index", i), zap.Error(err))
			continue
		}
		id := recordID(rec)
		if id == "" {
			report.warn("%s[%d]: missing id", key, i)
			continue
		}
		if err := validateRecord(rec); err != nil {
			report.warn("%s[%d]: %s: %v", key, i, id, err)
			s.logger.Warn("skipping invalid snapshot record",
				zap.String("key", key), zap.String("id", id), zap.Error(err))
			continue
		}
		if seen[id] {
			report.warn("%s[%d]: duplicate id %s", key, i, id)
			continue
		}
		seen[id] = true
		out = append(out, rec)
	}
	return &out
}

func recordID(rec any) string {
	switch r := rec.(type) {
	case model.User:
		return r.ID
	case model.Project:
		return r.ID
	case model.Task:
		return r.ID
	case model.Comment:
		return r.ID
	case model.Activity:
		return r.ID
	}
	return ""
}

// validateRecord applies the write-path checks to an imported record.
func validateRecord(rec any) error {
	switch r := rec.(type) {
	case model.Project:
		return r.Validate()
	case model.Task:
		return r.Validate()
	}
	return nil
}

// replace empties table ahead of an import. table is a package constant.
func replace(ctx context.Context, tx *sqlx.Tx, table string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	return nil
}
