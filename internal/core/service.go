package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/archive"
	memorystore "github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/infra/persistence/memory"
	"github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"
)

// AuditStatus classifies the outcome of an audited operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry records one configuration mutation or check run.
type AuditEntry struct {
	At        time.Time   `json:"at"`
	Operation string      `json:"operation"`
	Status    AuditStatus `json:"status"`
	EntityID  string      `json:"entity_id,omitempty"`
	Detail    string      `json:"detail,omitempty"`
}

// Audit trail bounds. When the trail exceeds the cap the oldest chunk is
// dropped in one piece so trimming stays rare.
const (
	maxAuditEntries = 800
	auditTrimCount  = 300
)

// CheckReport is a timestamped compatibility check outcome.
type CheckReport struct {
	CheckedAt time.Time `json:"checked_at"`
	domain.CheckResult
}

// Service exposes the transactional configuration operations and the
// compatibility check entry point.
type Service struct {
	store   PersistentStore
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	clock   Clock
	reports archive.Store

	mu        sync.Mutex
	audit     []AuditEntry
	lastCheck *CheckReport
	checkSeq  uint64
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder attaches a metrics recorder.
func WithMetricsRecorder(metrics MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithTracer attaches a tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithArchive attaches a report archive; every completed check is persisted
// there as a JSON document.
func WithArchive(store archive.Store) ServiceOption {
	return func(s *Service) {
		s.reports = store
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store wired to
// the given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memorystore.NewStore(engine), opts...)
}

// Store returns the underlying persistence implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

var idPattern = regexp.MustCompile(`^[A-Z0-9_\-]{2,32}$`)

// normalizeID uppercases and validates a catalog identifier.
func normalizeID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("invalid identifier %q", raw)
	}
	return id, nil
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// clampHex returns value when it is a #RRGGBB color, else the fallback.
func clampHex(value, fallback string) string {
	if hexColorPattern.MatchString(value) {
		return value
	}
	return fallback
}

func (s *Service) recordAudit(op string, status AuditStatus, entityID, detail string) {
	entry := AuditEntry{
		At:        s.clock.Now(),
		Operation: op,
		Status:    status,
		EntityID:  entityID,
		Detail:    detail,
	}
	s.mu.Lock()
	s.audit = append(s.audit, entry)
	if len(s.audit) > maxAuditEntries {
		s.audit = append([]AuditEntry(nil), s.audit[auditTrimCount:]...)
	}
	s.mu.Unlock()
}

func (s *Service) audited(ctx context.Context, op, entityID string, fn func(context.Context) error) error {
	err := s.instrument(ctx, op, fn)
	status := AuditStatusSuccess
	detail := ""
	if err != nil {
		status = AuditStatusError
		detail = err.Error()
	}
	s.recordAudit(op, status, entityID, detail)
	return err
}

// AuditTrail returns a copy of the recorded audit entries, oldest first.
func (s *Service) AuditTrail() []AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

// UpsertClass creates or updates a reagent class. Identifiers are uppercased
// and validated; colors are clamped to #RRGGBB with a neutral fallback.
func (s *Service) UpsertClass(ctx context.Context, class ReagentClass) (ReagentClass, Result, error) {
	var (
		saved ReagentClass
		res   Result
	)
	err := s.audited(ctx, "upsert_class", class.ID, func(ctx context.Context) error {
		id, err := normalizeID(class.ID)
		if err != nil {
			return err
		}
		class.ID = id
		class.Color = clampHex(class.Color, "#dddddd")
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var txErr error
			saved, txErr = tx.UpsertClass(class)
			return txErr
		})
		return err
	})
	return saved, res, err
}

// DeleteClass removes a reagent class. Reagents of the deleted class fall
// back to OTHER; the core classes are protected by the commit rules.
func (s *Service) DeleteClass(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.audited(ctx, "delete_class", id, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteClass(id)
		})
		return err
	})
	return res, err
}

// UpsertReagent creates or updates a reagent.
func (s *Service) UpsertReagent(ctx context.Context, reagent Reagent) (Reagent, Result, error) {
	var (
		saved Reagent
		res   Result
	)
	err := s.audited(ctx, "upsert_reagent", reagent.ID, func(ctx context.Context) error {
		id, err := normalizeID(reagent.ID)
		if err != nil {
			return err
		}
		reagent.ID = id
		if reagent.OverrideColor != "" {
			reagent.OverrideColor = clampHex(reagent.OverrideColor, "")
		}
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var txErr error
			saved, txErr = tx.UpsertReagent(reagent)
			return txErr
		})
		return err
	})
	return saved, res, err
}

// DeleteReagent removes a reagent; stations holding it are reset to EMPTY.
// The core reagents are protected by the commit rules.
func (s *Service) DeleteReagent(ctx context.Context, id string) (Result, error) {
	var res Result
	err := s.audited(ctx, "delete_reagent", id, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteReagent(id)
		})
		return err
	})
	return res, err
}

// SaveLayout applies a batch of station assignments in one transaction.
// Unknown stations are rejected; unknown reagents normalize to EMPTY.
func (s *Service) SaveLayout(ctx context.Context, assignments map[string]string) (Result, error) {
	var res Result
	err := s.audited(ctx, "save_layout", "", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			for slot, reagentID := range assignments {
				if err := tx.AssignReagent(slot, reagentID); err != nil {
					return err
				}
			}
			return nil
		})
		return err
	})
	return res, err
}

// AssignReagent updates a single station assignment.
func (s *Service) AssignReagent(ctx context.Context, slot, reagentID string) (Result, error) {
	var res Result
	err := s.audited(ctx, "assign_reagent", slot, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.AssignReagent(slot, reagentID)
		})
		return err
	})
	return res, err
}

// SetWaterModes switches the dual-mode stations between water and reagent
// operation.
func (s *Service) SetWaterModes(ctx context.Context, modes map[string]WaterMode) (Result, error) {
	var res Result
	err := s.audited(ctx, "set_water_modes", "", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			for slot, mode := range modes {
				if err := tx.SetWaterMode(slot, mode); err != nil {
					return err
				}
			}
			return nil
		})
		return err
	})
	return res, err
}

// SetWaterFlow records the measured water supply flow in liters per minute.
func (s *Service) SetWaterFlow(ctx context.Context, lMin float64) (Result, error) {
	var res Result
	err := s.audited(ctx, "set_water_flow", "", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.SetWaterFlow(lMin)
		})
		return err
	})
	return res, err
}

// CreateProgram registers a new empty staining program.
func (s *Service) CreateProgram(ctx context.Context, name string) (Program, Result, error) {
	var (
		created Program
		res     Result
	)
	err := s.audited(ctx, "create_program", name, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var txErr error
			created, txErr = tx.CreateProgram(name)
			return txErr
		})
		return err
	})
	return created, res, err
}

// RenameProgram renames a program, retargeting the run selection.
func (s *Service) RenameProgram(ctx context.Context, oldName, newName string) (Result, error) {
	var res Result
	err := s.audited(ctx, "rename_program", oldName, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.RenameProgram(oldName, newName)
		})
		return err
	})
	return res, err
}

// DeleteProgram removes a program. The last remaining program cannot be
// deleted.
func (s *Service) DeleteProgram(ctx context.Context, name string) (Result, error) {
	var res Result
	err := s.audited(ctx, "delete_program", name, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.DeleteProgram(name)
		})
		return err
	})
	return res, err
}

// SaveProgramSteps replaces the step list of an existing program.
func (s *Service) SaveProgramSteps(ctx context.Context, name string, steps []Step) (Program, Result, error) {
	var (
		saved Program
		res   Result
	)
	err := s.audited(ctx, "save_program_steps", name, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var txErr error
			saved, txErr = tx.SaveProgramSteps(name, steps)
			return txErr
		})
		return err
	})
	return saved, res, err
}

// SetRunSelection replaces the set of programs selected for the next run.
func (s *Service) SetRunSelection(ctx context.Context, names []string) (Result, error) {
	var res Result
	err := s.audited(ctx, "set_run_selection", "", func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return tx.SetRunSelection(names)
		})
		return err
	})
	return res, err
}

// Check runs the compatibility engine over a consistent snapshot. When no
// programs are given the stored run selection is used. The report is
// retained as the last check and archived when an archive is configured.
func (s *Service) Check(ctx context.Context, selected ...string) (CheckReport, error) {
	var report CheckReport
	err := s.audited(ctx, "run_check", "", func(ctx context.Context) error {
		var result CheckResult
		err := s.store.View(ctx, func(view TransactionView) error {
			names := selected
			if len(names) == 0 {
				names = view.Settings().RunSelection
			}
			result = Check(view, names)
			return nil
		})
		if err != nil {
			return err
		}
		report = CheckReport{CheckedAt: s.clock.Now(), CheckResult: result}
		if rec, ok := s.metrics.(CheckOutcomeRecorder); ok {
			rec.ObserveCheck(ctx, report.Overall, len(report.Findings))
		}

		s.mu.Lock()
		retained := report
		s.lastCheck = &retained
		s.mu.Unlock()

		if s.reports != nil {
			if archiveErr := s.archiveReport(ctx, report); archiveErr != nil {
				// The check result stands even when archiving fails.
				s.logger.Warn("check report archive failed", "error", archiveErr)
			}
		}
		return nil
	})
	return report, err
}

func (s *Service) archiveReport(ctx context.Context, report CheckReport) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	seq := atomic.AddUint64(&s.checkSeq, 1)
	key := fmt.Sprintf("checks/%s-%d.json", report.CheckedAt.Format("20060102T150405Z"), seq)
	_, err = s.reports.Put(ctx, key, bytes.NewReader(payload), archive.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"overall": string(report.Overall)},
	})
	return err
}

// LastCheck returns the most recent check report, if any.
func (s *Service) LastCheck() (CheckReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastCheck == nil {
		return CheckReport{}, false
	}
	return *s.lastCheck, true
}

// StateSnapshot exports a deep copy of the full configuration state.
func (s *Service) StateSnapshot() Snapshot {
	return s.store.ExportState()
}
