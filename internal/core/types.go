package core

import "github.com/Ulrike-Hampacher/Badlayout-Chromax/pkg/domain"

type (
	StationKind        = domain.StationKind
	WaterMode          = domain.WaterMode
	ReagentClass       = domain.ReagentClass
	Reagent            = domain.Reagent
	Assignment         = domain.Assignment
	Step               = domain.Step
	Program            = domain.Program
	Settings           = domain.Settings
	Snapshot           = domain.Snapshot
	Severity           = domain.Severity
	Finding            = domain.Finding
	Result             = domain.Result
	ProgramResult      = domain.ProgramResult
	CheckResult        = domain.CheckResult
	Change             = domain.Change
	EntityType         = domain.EntityType
	Action             = domain.Action
	Rule               = domain.Rule
	RuleView           = domain.RuleView
	RulesEngine        = domain.RulesEngine
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
	PersistentStore    = domain.PersistentStore
	RuleViolationError = domain.RuleViolationError
	ErrNotFound        = domain.ErrNotFound
)

const (
	SeverityOK    = domain.SeverityOK
	SeverityWarn  = domain.SeverityWarn
	SeverityBlock = domain.SeverityBlock
)

const (
	KindReagent = domain.KindReagent
	KindWater   = domain.KindWater
	KindOven    = domain.KindOven
	KindLoad    = domain.KindLoad
)

const (
	ModeWater   = domain.ModeWater
	ModeReagent = domain.ModeReagent
)

const (
	ClassEmpty = domain.ClassEmpty
	ClassWater = domain.ClassWater
	ClassOther = domain.ClassOther
	ClassOven  = domain.ClassOven
	ClassLoad  = domain.ClassLoad
)

const (
	ReagentEmpty = domain.ReagentEmpty
	ReagentWater = domain.ReagentWater
)

const (
	EntityClass    = domain.EntityClass
	EntityReagent  = domain.EntityReagent
	EntityLayout   = domain.EntityLayout
	EntityProgram  = domain.EntityProgram
	EntitySettings = domain.EntitySettings
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
