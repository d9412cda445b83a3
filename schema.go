package expmeta

// The schema model is a set of static declarative tables. Both the
// Mapper/Validator and the SchemaExporter iterate them, so the accepted
// shape of a document and its exported JSON Schema cannot drift apart.

// FieldType is the declared type of a schema field.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldFloat
	FieldEntity // nested mapping bound to another entity
	FieldList   // ordered sequence of another entity
)

// Field is one declared field of an entity.
type Field struct {
	Name         string
	Type         FieldType
	Required     bool
	Enum         []string // allowed literals for string fields
	Min          *int64   // inclusive minimum for int fields
	ExclusiveMin *float64 // exclusive minimum for float fields
	Format       string   // JSON Schema format hint for string fields
	Entity       string   // entity name for FieldEntity/FieldList
	Desc         string
}

// EntityDef declares one entity: its name, description and ordered fields.
// Field order here is the canonical key order of serialized output.
type EntityDef struct {
	Name   string
	Desc   string
	Fields []Field
}

func (d EntityDef) field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

var regionKinds = []string{
	string(RegionFunction), string(RegionLoop), string(RegionPhase),
	string(RegionUserDefined), string(RegionOther),
}

var metricTypes = []string{string(MetricInt), string(MetricFloat)}

var nodeKinds = []string{
	string(NodeProcess), string(NodeThread),
	string(NodeLocationGroup), string(NodeLocation),
}

var experimentInfoDef = EntityDef{
	Name: "ExperimentInfo",
	Desc: "Descriptive information about the experiment run.",
	Fields: []Field{
		{Name: "name", Type: FieldString, Required: true, Desc: "Human-readable experiment name."},
		{Name: "date", Type: FieldString, Format: "date-time", Desc: "RFC3339 timestamp of the run."},
	},
}

var sourceLocationDef = EntityDef{
	Name: "SourceLocation",
	Desc: "Source file and line range of a region. endLine must not precede beginLine.",
	Fields: []Field{
		{Name: "file", Type: FieldString, Required: true, Desc: "Source file path."},
		{Name: "beginLine", Type: FieldInt, Required: true, Min: i64(1), Desc: "First line of the region, 1-based."},
		{Name: "endLine", Type: FieldInt, Required: true, Min: i64(1), Desc: "Last line of the region, 1-based."},
	},
}

var regionDef = EntityDef{
	Name: "Region",
	Desc: "A named instrumented code construct. Region identifiers are unique within the document.",
	Fields: []Field{
		{Name: "id", Type: FieldString, Required: true, Desc: "Unique region identifier."},
		{Name: "name", Type: FieldString, Required: true, Desc: "Human-readable region name."},
		{Name: "kind", Type: FieldString, Required: true, Enum: regionKinds, Desc: "Region kind."},
		{Name: "location", Type: FieldEntity, Entity: "SourceLocation", Desc: "Optional source location."},
	},
}

var metricDefinitionDef = EntityDef{
	Name: "MetricDefinition",
	Desc: "A measured quantity. Metric identifiers are unique within the document.",
	Fields: []Field{
		{Name: "id", Type: FieldString, Required: true, Desc: "Unique metric identifier."},
		{Name: "name", Type: FieldString, Required: true, Desc: "Human-readable metric name."},
		{Name: "unit", Type: FieldString, Required: true, Desc: "Measurement unit; empty means dimensionless."},
		{Name: "type", Type: FieldString, Required: true, Enum: metricTypes, Desc: "Value type of the metric."},
		{Name: "scale", Type: FieldFloat, ExclusiveMin: f64(0), Desc: "Optional unit-scale factor."},
	},
}

var topologyNodeDef = EntityDef{
	Name: "TopologyNode",
	Desc: "One process/thread/location of the measurement topology. Node identifiers are unique " +
		"within the document and the tree is cycle-free: no node may repeat an ancestor identifier. " +
		"entryRegion, when present, must name a declared Region. Child order is meaningful.",
	Fields: []Field{
		{Name: "id", Type: FieldString, Required: true, Desc: "Unique node identifier."},
		{Name: "kind", Type: FieldString, Required: true, Enum: nodeKinds, Desc: "Node kind."},
		{Name: "entryRegion", Type: FieldString, Desc: "Identifier of the entry Region at this node."},
		{Name: "children", Type: FieldList, Entity: "TopologyNode", Desc: "Child nodes in declaration order."},
	},
}

var documentDef = EntityDef{
	Name: "ExperimentDocument",
	Desc: "One measurement experiment: its source regions, metric definitions and execution topology. " +
		"Every identifier referenced from the topology must be declared in the corresponding top-level sequence.",
	Fields: []Field{
		{Name: "experiment", Type: FieldEntity, Entity: "ExperimentInfo", Desc: "Optional experiment information."},
		{Name: "regions", Type: FieldList, Required: true, Entity: "Region", Desc: "Declared regions."},
		{Name: "metrics", Type: FieldList, Required: true, Entity: "MetricDefinition", Desc: "Declared metrics."},
		{Name: "topology", Type: FieldEntity, Required: true, Entity: "TopologyNode", Desc: "Topology root node."},
	},
}

// entityDefs lists the referenced entities in export order.
var entityDefs = []EntityDef{
	regionDef, metricDefinitionDef, topologyNodeDef, sourceLocationDef, experimentInfoDef,
}
