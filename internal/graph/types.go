package graph

import "errors"

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateNode = errors.New("duplicate node")
	ErrTypeMismatch  = errors.New("detail does not match entity type")
)

// EntityType is the kind of a node in the knowledge graph.
type EntityType string

const (
	TypeComponent EntityType = "component"
	TypeSymptom   EntityType = "symptom"
	TypeProblem   EntityType = "problem"
	TypeTask      EntityType = "task"
)

// EntityTypes lists every entity type in bucket order.
var EntityTypes = []EntityType{TypeComponent, TypeSymptom, TypeProblem, TypeTask}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	for _, known := range EntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Detail is the payload attached to a node. Concrete payloads are plain data;
// rendering lives in the format package.
type Detail interface {
	EntityType() EntityType
}

// Component is a part of the car.
type Component struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Critical    bool   `json:"critical"`
}

func (Component) EntityType() EntityType { return TypeComponent }

// Severity levels used by symptoms.
const (
	SeverityLow    = "низкая"
	SeverityMedium = "средняя"
	SeverityHigh   = "высокая"
)

// Symptom is something the driver notices.
type Symptom struct {
	Name              string   `json:"name"`
	Severity          string   `json:"severity"`
	RelatedComponents []string `json:"related_components"`
}

func (Symptom) EntityType() EntityType { return TypeSymptom }

// Repair types used by problems.
const (
	RepairReplace     = "замена"
	RepairService     = "обслуживание"
	RepairDiagnostics = "диагностика"
)

// Problem is a diagnosable fault.
type Problem struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	AffectedComponent string `json:"affected_component"`
	RepairType        string `json:"repair_type"`
}

func (Problem) EntityType() EntityType { return TypeProblem }

// MaintenanceTask is a scheduled service. MileageInterval is in kilometres;
// zero means the task is seasonal rather than mileage based.
type MaintenanceTask struct {
	Name            string   `json:"name"`
	MileageInterval int      `json:"mileage_interval"`
	Components      []string `json:"components"`
	Description     string   `json:"description"`
}

func (MaintenanceTask) EntityType() EntityType { return TypeTask }

// Node is a named entity in the graph. Name is the unique key.
type Node struct {
	Name   string     `json:"name"`
	Type   EntityType `json:"entity_type"`
	Detail Detail     `json:"detail"`
}

// Edge is an undirected, labelled connection between two nodes.
// A and B keep the order the edge was declared in.
type Edge struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Relation string `json:"relation"`
}

// Neighbor is one side of an edge as seen from the other endpoint.
type Neighbor struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// Stats summarises the graph.
type Stats struct {
	NodeCount    int                `json:"num_nodes"`
	EdgeCount    int                `json:"num_edges"`
	CountsByType map[EntityType]int `json:"counts_by_type"`
}
