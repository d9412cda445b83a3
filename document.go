package expmeta

import "strconv"

// RegionKind classifies a source region.
type RegionKind string

const (
	RegionFunction    RegionKind = "function"
	RegionLoop        RegionKind = "loop"
	RegionPhase       RegionKind = "phase"
	RegionUserDefined RegionKind = "user-defined"
	RegionOther       RegionKind = "other"
)

// MetricType is the value type of a measured quantity.
type MetricType string

const (
	MetricInt   MetricType = "int"
	MetricFloat MetricType = "float"
)

// NodeKind classifies a topology node.
type NodeKind string

const (
	NodeProcess       NodeKind = "process"
	NodeThread        NodeKind = "thread"
	NodeLocationGroup NodeKind = "location-group"
	NodeLocation      NodeKind = "location"
)

// Float carries the document's floating-point formatting policy: plain
// decimal notation, shortest form, no trailing zeros, never scientific
// notation. This keeps serialized output byte-stable across runs.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(f), 'f', -1, 64), nil
}

// SourceLocation points a region at its source file and line range.
type SourceLocation struct {
	File      string `json:"file"`
	BeginLine int64  `json:"beginLine"`
	EndLine   int64  `json:"endLine"`
}

// Region is a named instrumented code construct.
type Region struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Kind     RegionKind      `json:"kind"`
	Location *SourceLocation `json:"location,omitempty"`
}

// MetricDefinition describes a measured quantity. Unit may be empty,
// meaning dimensionless. Scale is an optional unit-scale factor (> 0).
type MetricDefinition struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Unit  string     `json:"unit"`
	Type  MetricType `json:"type"`
	Scale *Float     `json:"scale,omitempty"`
}

// TopologyNode is one process/thread/location of the measurement topology.
// Children keep the declaration order of the source file; a node exclusively
// owns its children. EntryRegion, when set, names a declared Region and is a
// lookup, never ownership.
type TopologyNode struct {
	ID          string          `json:"id"`
	Kind        NodeKind        `json:"kind"`
	EntryRegion string          `json:"entryRegion,omitempty"`
	Children    []*TopologyNode `json:"children"`
}

// ExperimentInfo is the optional descriptive block of the experiment run.
// Date, when present, is an RFC3339 timestamp kept verbatim.
type ExperimentInfo struct {
	Name string `json:"name"`
	Date string `json:"date,omitempty"`
}

// ExperimentDocument is the validated document root. It is constructed once
// by Decode and immutable thereafter. Struct field order mirrors the schema
// tables; the serializer derives its canonical key order from it.
type ExperimentDocument struct {
	Experiment *ExperimentInfo    `json:"experiment,omitempty"`
	Regions    []Region           `json:"regions"`
	Metrics    []MetricDefinition `json:"metrics"`
	Topology   *TopologyNode      `json:"topology"`
}
