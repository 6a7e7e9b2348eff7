package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/labdoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ labdoc.RuleStore = (*RuleStore)(nil)

// RuleStore implements labdoc.RuleStore using SQLite.
//
// Readers see an immutable in-memory snapshot and never touch the
// database. Writers are serialized by a mutex, persist each mutation and
// its training event in one transaction, and publish a new snapshot only
// after the transaction commits.
type RuleStore struct {
	db    *DB
	seeds map[labdoc.DocType]*labdoc.DocumentSchema
	now   func() time.Time

	mu    sync.Mutex
	state atomic.Pointer[snapshot]
}

type snapshot struct {
	schemas   map[labdoc.DocType]*labdoc.DocumentSchema
	revisions map[labdoc.DocType]string
	history   []labdoc.TrainingEvent
}

// NewRuleStore creates a RuleStore backed by db. Seeds are the built-in
// schemas: they fill in document types that are not yet persisted when
// Load is called, and are what ResetSchema restores.
func NewRuleStore(db *DB, seeds []*labdoc.DocumentSchema) *RuleStore {
	s := &RuleStore{
		db:    db,
		seeds: make(map[labdoc.DocType]*labdoc.DocumentSchema, len(seeds)),
		now:   time.Now,
	}
	for _, seed := range seeds {
		s.seeds[seed.DocType] = seed.Clone()
	}
	s.state.Store(&snapshot{
		schemas:   map[labdoc.DocType]*labdoc.DocumentSchema{},
		revisions: map[labdoc.DocType]string{},
	})
	return s
}

// Load persists seed schemas for document types the database does not
// have yet, then reads all schemas and training events into memory.
func (s *RuleStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.storedDocTypes(ctx)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	for _, docType := range sortedDocTypes(s.seeds) {
		if existing[docType] {
			continue
		}
		if _, err := writeSchema(ctx, tx, s.seeds[docType], now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed schemas: %w", err)
	}

	snap, err := s.readSnapshot(ctx)
	if err != nil {
		return err
	}
	s.state.Store(snap)
	return nil
}

// Schema returns a copy of the schema for docType, or of the unknown
// schema if docType has none.
func (s *RuleStore) Schema(docType labdoc.DocType) *labdoc.DocumentSchema {
	snap := s.state.Load()
	if schema, ok := snap.schemas[docType]; ok {
		return schema.Clone()
	}
	if schema, ok := snap.schemas[labdoc.DocTypeUnknown]; ok {
		return schema.Clone()
	}
	return &labdoc.DocumentSchema{DocType: labdoc.DocTypeUnknown, Fields: []labdoc.FieldRule{}}
}

// Schemas returns copies of all schemas ordered by document type.
func (s *RuleStore) Schemas() []*labdoc.DocumentSchema {
	snap := s.state.Load()
	out := make([]*labdoc.DocumentSchema, 0, len(snap.schemas))
	for _, docType := range sortedDocTypes(snap.schemas) {
		out = append(out, snap.schemas[docType].Clone())
	}
	return out
}

// Revision returns the content hash of the stored schema for docType.
func (s *RuleStore) Revision(docType labdoc.DocType) string {
	return s.state.Load().revisions[docType]
}

// History returns training events for docType in recording order, or all
// events if docType is empty.
func (s *RuleStore) History(docType labdoc.DocType) []labdoc.TrainingEvent {
	snap := s.state.Load()
	out := []labdoc.TrainingEvent{}
	for _, ev := range snap.history {
		if docType != "" && ev.DocType != docType {
			continue
		}
		if ev.Example != nil {
			ex := *ev.Example
			ev.Example = &ex
		}
		out = append(out, ev)
	}
	return out
}

// AddRule adds pattern to the front of the field's rule, creating the rule
// if needed, and appends example when given.
func (s *RuleStore) AddRule(ctx context.Context, docType labdoc.DocType, field string, pattern labdoc.Pattern, example *labdoc.Example) error {
	if err := docType.Validate(); err != nil {
		return err
	}
	if field == "" {
		return labdoc.Errorf(labdoc.EINVALID, "field name required")
	}
	if err := pattern.Validate(); err != nil {
		return err
	}

	return s.mutate(ctx, docType, func(schema *labdoc.DocumentSchema) (labdoc.TrainingEvent, error) {
		rule := schema.Field(field)
		if rule == nil {
			schema.Fields = append(schema.Fields, labdoc.FieldRule{Name: field})
			rule = &schema.Fields[len(schema.Fields)-1]
		}
		if len(rule.Patterns) == 0 || rule.Patterns[0].Expr != pattern.Expr {
			rule.Patterns = append([]labdoc.Pattern{pattern}, rule.Patterns...)
		}

		ev := labdoc.TrainingEvent{Field: field, Action: labdoc.ActionAddRule, Pattern: pattern.Expr}
		if example != nil {
			rule.Examples = append(rule.Examples, *example)
			ex := *example
			ev.Example = &ex
		}
		return ev, nil
	})
}

// ReplaceActivePattern replaces the first pattern of an existing field.
func (s *RuleStore) ReplaceActivePattern(ctx context.Context, docType labdoc.DocType, field string, pattern labdoc.Pattern) error {
	if err := pattern.Validate(); err != nil {
		return err
	}

	return s.mutate(ctx, docType, func(schema *labdoc.DocumentSchema) (labdoc.TrainingEvent, error) {
		rule := schema.Field(field)
		if rule == nil {
			return labdoc.TrainingEvent{}, labdoc.Errorf(labdoc.ENOTFOUND, "field %q not found in schema %q", field, docType)
		}
		if len(rule.Patterns) == 0 {
			rule.Patterns = []labdoc.Pattern{pattern}
		} else {
			rule.Patterns[0] = pattern
		}
		return labdoc.TrainingEvent{Field: field, Action: labdoc.ActionUpdatePattern, Pattern: pattern.Expr}, nil
	})
}

// ResetSchema restores the seed schema for docType.
func (s *RuleStore) ResetSchema(ctx context.Context, docType labdoc.DocType) error {
	seed, ok := s.seeds[docType]
	if !ok {
		return labdoc.Errorf(labdoc.ENOTFOUND, "no built-in schema for %q", docType)
	}

	return s.mutate(ctx, docType, func(schema *labdoc.DocumentSchema) (labdoc.TrainingEvent, error) {
		schema.Fields = seed.Clone().Fields
		return labdoc.TrainingEvent{Action: labdoc.ActionResetSchema}, nil
	})
}

// PutSchemas replaces whole schemas. All schemas and their events are
// written in one transaction: either every schema is replaced or none is.
func (s *RuleStore) PutSchemas(ctx context.Context, schemas ...*labdoc.DocumentSchema) error {
	changes := make([]change, 0, len(schemas))
	for _, schema := range schemas {
		if schema == nil {
			return labdoc.Errorf(labdoc.EINVALID, "schema required")
		}
		if err := schema.Validate(); err != nil {
			return err
		}
		replacement := schema.Clone()
		changes = append(changes, change{
			docType: schema.DocType,
			apply: func(current *labdoc.DocumentSchema) (labdoc.TrainingEvent, error) {
				current.Fields = replacement.Fields
				return labdoc.TrainingEvent{Action: labdoc.ActionImportSchema}, nil
			},
		})
	}
	return s.commit(ctx, changes...)
}

// change is one schema mutation and the event that records it.
type change struct {
	docType labdoc.DocType
	apply   func(schema *labdoc.DocumentSchema) (labdoc.TrainingEvent, error)
}

// mutate applies fn to a copy of the schema for docType, persists the
// result with the returned event, and publishes a new snapshot.
func (s *RuleStore) mutate(ctx context.Context, docType labdoc.DocType, fn func(schema *labdoc.DocumentSchema) (labdoc.TrainingEvent, error)) error {
	return s.commit(ctx, change{docType: docType, apply: fn})
}

// commit applies changes in order to copies of the current schemas and
// persists the results with their events in one transaction. The new
// snapshot is published only after the transaction commits.
func (s *RuleStore) commit(ctx context.Context, changes ...change) error {
	for _, c := range changes {
		if err := c.docType.Validate(); err != nil {
			return err
		}
	}
	if len(changes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	now := s.now()
	changed := make(map[labdoc.DocType]*labdoc.DocumentSchema, len(changes))
	events := make([]labdoc.TrainingEvent, 0, len(changes))
	for _, c := range changes {
		schema := changed[c.docType]
		if schema == nil {
			schema = cur.schemas[c.docType].Clone()
		}
		if schema == nil {
			schema = &labdoc.DocumentSchema{DocType: c.docType, Fields: []labdoc.FieldRule{}}
		}

		ev, err := c.apply(schema)
		if err != nil {
			return err
		}
		if err := schema.Validate(); err != nil {
			return err
		}

		ev.ID = uuid.New().String()
		ev.Timestamp = now.UTC()
		ev.DocType = c.docType
		changed[c.docType] = schema
		events = append(events, ev)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	revisions := make(map[labdoc.DocType]string, len(changed))
	for _, docType := range sortedDocTypes(changed) {
		revision, err := writeSchema(ctx, tx, changed[docType], now)
		if err != nil {
			return err
		}
		revisions[docType] = revision
	}
	for _, ev := range events {
		if err := insertEvent(ctx, tx, ev); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema change: %w", err)
	}

	next := &snapshot{
		schemas:   make(map[labdoc.DocType]*labdoc.DocumentSchema, len(cur.schemas)+len(changed)),
		revisions: make(map[labdoc.DocType]string, len(cur.revisions)+len(changed)),
		history:   append(cur.history[:len(cur.history):len(cur.history)], events...),
	}
	for k, v := range cur.schemas {
		next.schemas[k] = v
	}
	for k, v := range cur.revisions {
		next.revisions[k] = v
	}
	for k, v := range changed {
		next.schemas[k] = v
		next.revisions[k] = revisions[k]
	}
	s.state.Store(next)

	return nil
}

// writeSchema replaces all stored rows for a schema and returns its
// content hash.
func writeSchema(ctx context.Context, tx *sql.Tx, schema *labdoc.DocumentSchema, now time.Time) (string, error) {
	revision, err := hashSchema(schema)
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schemas (doc_type, content_hash, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(doc_type) DO UPDATE SET content_hash = excluded.content_hash, updated_at = excluded.updated_at
	`, string(schema.DocType), revision, formatTimestamp(now)); err != nil {
		return "", fmt.Errorf("failed to write schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM field_rules WHERE doc_type = ?`, string(schema.DocType)); err != nil {
		return "", fmt.Errorf("failed to clear field rules: %w", err)
	}

	for i, f := range schema.Fields {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO field_rules (doc_type, name, position) VALUES (?, ?, ?)
		`, string(schema.DocType), f.Name, i); err != nil {
			return "", fmt.Errorf("failed to write field rule %q: %w", f.Name, err)
		}
		for j, p := range f.Patterns {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO patterns (doc_type, field_name, position, expr, prefix, suffix) VALUES (?, ?, ?, ?, ?, ?)
			`, string(schema.DocType), f.Name, j, p.Expr, p.Prefix, p.Suffix); err != nil {
				return "", fmt.Errorf("failed to write pattern: %w", err)
			}
		}
		for j, e := range f.Examples {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO examples (doc_type, field_name, position, text, value) VALUES (?, ?, ?, ?, ?)
			`, string(schema.DocType), f.Name, j, e.Text, e.Value); err != nil {
				return "", fmt.Errorf("failed to write example: %w", err)
			}
		}
	}

	return revision, nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, ev labdoc.TrainingEvent) error {
	var exText, exValue sql.NullString
	if ev.Example != nil {
		exText = sql.NullString{String: ev.Example.Text, Valid: true}
		exValue = sql.NullString{String: ev.Example.Value, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO training_events (id, doc_type, field_name, action, example_text, example_value, pattern, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, string(ev.DocType), ev.Field, string(ev.Action), exText, exValue, ev.Pattern, formatTimestamp(ev.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to record training event: %w", err)
	}
	return nil
}

func (s *RuleStore) storedDocTypes(ctx context.Context) (map[labdoc.DocType]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_type FROM schemas`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[labdoc.DocType]bool)
	for rows.Next() {
		var docType string
		if err := rows.Scan(&docType); err != nil {
			return nil, err
		}
		out[labdoc.DocType(docType)] = true
	}
	return out, rows.Err()
}

// readSnapshot reads every schema and training event from the database.
func (s *RuleStore) readSnapshot(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{
		schemas:   make(map[labdoc.DocType]*labdoc.DocumentSchema),
		revisions: make(map[labdoc.DocType]string),
		history:   []labdoc.TrainingEvent{},
	}

	if err := s.readSchemas(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readFieldRules(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readPatterns(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readExamples(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.readEvents(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *RuleStore) readSchemas(ctx context.Context, snap *snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_type, content_hash FROM schemas`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var docType, hash string
		if err := rows.Scan(&docType, &hash); err != nil {
			return err
		}
		dt := labdoc.DocType(docType)
		snap.schemas[dt] = &labdoc.DocumentSchema{DocType: dt, Fields: []labdoc.FieldRule{}}
		snap.revisions[dt] = hash
	}
	return rows.Err()
}

func (s *RuleStore) readFieldRules(ctx context.Context, snap *snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_type, name FROM field_rules ORDER BY doc_type, position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var docType, name string
		if err := rows.Scan(&docType, &name); err != nil {
			return err
		}
		schema := snap.schemas[labdoc.DocType(docType)]
		if schema == nil {
			continue
		}
		schema.Fields = append(schema.Fields, labdoc.FieldRule{Name: name})
	}
	return rows.Err()
}

func (s *RuleStore) readPatterns(ctx context.Context, snap *snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_type, field_name, expr, prefix, suffix FROM patterns ORDER BY doc_type, field_name, position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var docType, field string
		var p labdoc.Pattern
		if err := rows.Scan(&docType, &field, &p.Expr, &p.Prefix, &p.Suffix); err != nil {
			return err
		}
		if rule := snap.rule(docType, field); rule != nil {
			rule.Patterns = append(rule.Patterns, p)
		}
	}
	return rows.Err()
}

func (s *RuleStore) readExamples(ctx context.Context, snap *snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_type, field_name, text, value FROM examples ORDER BY doc_type, field_name, position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var docType, field string
		var e labdoc.Example
		if err := rows.Scan(&docType, &field, &e.Text, &e.Value); err != nil {
			return err
		}
		if rule := snap.rule(docType, field); rule != nil {
			rule.Examples = append(rule.Examples, e)
		}
	}
	return rows.Err()
}

func (s *RuleStore) readEvents(ctx context.Context, snap *snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, doc_type, field_name, action, example_text, example_value, pattern, created_at
		FROM training_events
		ORDER BY seq
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ev labdoc.TrainingEvent
		var docType, action, createdAt string
		var exText, exValue sql.NullString
		if err := rows.Scan(&ev.ID, &docType, &ev.Field, &action, &exText, &exValue, &ev.Pattern, &createdAt); err != nil {
			return err
		}
		ev.DocType = labdoc.DocType(docType)
		ev.Action = labdoc.TrainingAction(action)
		if exText.Valid {
			ev.Example = &labdoc.Example{Text: exText.String, Value: exValue.String}
		}
		if ev.Timestamp, err = parseTimestamp(createdAt, "created_at"); err != nil {
			return err
		}
		snap.history = append(snap.history, ev)
	}
	return rows.Err()
}

func (snap *snapshot) rule(docType, field string) *labdoc.FieldRule {
	schema := snap.schemas[labdoc.DocType(docType)]
	if schema == nil {
		return nil
	}
	return schema.Field(field)
}

func sortedDocTypes(m map[labdoc.DocType]*labdoc.DocumentSchema) []labdoc.DocType {
	out := make([]labdoc.DocType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
