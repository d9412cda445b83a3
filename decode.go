package expmeta

import (
	"fmt"
	"time"

	"github.com/perfmeta/expmeta/i18n"
)

// UnknownPolicy decides how the Mapper/Validator treats fields the schema
// does not declare.
type UnknownPolicy int

const (
	// UnknownStrict rejects any unrecognized field. Default.
	UnknownStrict UnknownPolicy = iota
	// UnknownLenient ignores unrecognized fields and drops them.
	UnknownLenient
)

// Options configures the Mapper/Validator. The zero value is the strict
// configuration.
type Options struct {
	UnknownFields UnknownPolicy
}

// Decode walks the generic tree and constructs a validated
// ExperimentDocument. It aggregates every detected violation instead of
// stopping at the first one; on failure the document is nil and the returned
// error is an Issues value listing each violation with its path and code.
//
// Construction is two-pass: pass one builds the region and metric tables and
// checks identifier uniqueness, pass two resolves the topology depth-first
// against those tables, tracking the ancestor-identifier set to reject
// cycles and preserving child declaration order.
func Decode(root *Value, opt Options) (*ExperimentDocument, error) {
	d := &decoder{opt: opt}
	doc := d.decodeDocument(root)
	if len(d.iss) > 0 {
		return nil, d.iss
	}
	return doc, nil
}

type decoder struct {
	opt Options
	iss Issues
}

func (d *decoder) report(path, code, hint string, params map[string]any) {
	d.iss = AppendIssues(d.iss, Issue{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, nil),
		Hint:    hint,
		Params:  params,
	})
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func indexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

// fields applies the unknown-field policy and required checks of def to a
// mapping and returns the known present fields. A non-mapping value is a
// wrong_type at path and yields nil.
func (d *decoder) fields(v *Value, path string, def EntityDef) map[string]*Value {
	if v == nil || v.Kind != KindMapping {
		got := "null"
		if v != nil {
			got = v.Kind.String()
		}
		d.report(path, CodeWrongType, "expected mapping, got "+got, nil)
		return nil
	}
	out := make(map[string]*Value, len(v.Entries))
	for _, e := range v.Entries {
		if _, ok := def.field(e.Key); !ok {
			if d.opt.UnknownFields == UnknownStrict {
				d.report(joinPath(path, e.Key), CodeUnknownField, "not a field of "+def.Name, nil)
			}
			continue
		}
		out[e.Key] = e.Value
	}
	for _, f := range def.Fields {
		if f.Required {
			if _, ok := out[f.Name]; !ok {
				d.report(joinPath(path, f.Name), CodeMissingRequiredField, "", nil)
			}
		}
	}
	return out
}

func (d *decoder) str(fields map[string]*Value, def EntityDef, path, name string) (string, bool) {
	v, ok := fields[name]
	if !ok {
		return "", false
	}
	fp := joinPath(path, name)
	if v.Kind != KindString {
		d.report(fp, CodeWrongType, "expected string, got "+v.Kind.String(), nil)
		return "", false
	}
	f, _ := def.field(name)
	if len(f.Enum) > 0 {
		for _, lit := range f.Enum {
			if v.Str == lit {
				return v.Str, true
			}
		}
		d.report(fp, CodeOutOfRange, fmt.Sprintf("%q is not one of %v", v.Str, f.Enum), map[string]any{"got": v.Str})
		return "", false
	}
	return v.Str, true
}

func (d *decoder) intField(fields map[string]*Value, def EntityDef, path, name string) (int64, bool) {
	v, ok := fields[name]
	if !ok {
		return 0, false
	}
	fp := joinPath(path, name)
	if v.Kind != KindInt {
		// a float literal never narrows to int
		d.report(fp, CodeWrongType, "expected integer, got "+v.Kind.String(), nil)
		return 0, false
	}
	f, _ := def.field(name)
	if f.Min != nil && v.Int < *f.Min {
		d.report(fp, CodeOutOfRange, fmt.Sprintf("must be >= %d", *f.Min), map[string]any{"got": v.Int})
		return 0, false
	}
	return v.Int, true
}

func (d *decoder) floatField(fields map[string]*Value, def EntityDef, path, name string) (float64, bool) {
	v, ok := fields[name]
	if !ok {
		return 0, false
	}
	fp := joinPath(path, name)
	var got float64
	switch v.Kind {
	case KindFloat:
		got = v.Float
	case KindInt:
		// integer literals widen to float
		got = float64(v.Int)
	default:
		d.report(fp, CodeWrongType, "expected float, got "+v.Kind.String(), nil)
		return 0, false
	}
	f, _ := def.field(name)
	if f.ExclusiveMin != nil && got <= *f.ExclusiveMin {
		d.report(fp, CodeOutOfRange, fmt.Sprintf("must be > %g", *f.ExclusiveMin), map[string]any{"got": got})
		return 0, false
	}
	return got, true
}

func (d *decoder) decodeDocument(root *Value) *ExperimentDocument {
	fields := d.fields(root, "", documentDef)
	if fields == nil {
		return nil
	}
	doc := &ExperimentDocument{
		Regions: []Region{},
		Metrics: []MetricDefinition{},
	}

	if v, ok := fields["experiment"]; ok {
		doc.Experiment = d.decodeExperiment(v, "experiment")
	}

	// pass 1: region and metric tables, identifier uniqueness
	regionIDs := make(map[string]string) // id -> path of first occurrence
	if v, ok := fields["regions"]; ok {
		doc.Regions = d.decodeRegions(v, "regions", regionIDs)
	}
	if v, ok := fields["metrics"]; ok {
		doc.Metrics = d.decodeMetrics(v, "metrics")
	}

	// pass 2: topology, resolved against the pass-1 tables
	if v, ok := fields["topology"]; ok {
		nodeIDs := make(map[string]string)
		ancestors := make(map[string]struct{})
		doc.Topology = d.decodeNode(v, "topology", regionIDs, nodeIDs, ancestors)
	}
	return doc
}

func (d *decoder) decodeExperiment(v *Value, path string) *ExperimentInfo {
	fields := d.fields(v, path, experimentInfoDef)
	if fields == nil {
		return nil
	}
	info := &ExperimentInfo{}
	if s, ok := d.str(fields, experimentInfoDef, path, "name"); ok {
		info.Name = s
	}
	if s, ok := d.str(fields, experimentInfoDef, path, "date"); ok {
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			d.report(joinPath(path, "date"), CodeWrongType, "expected an RFC3339 timestamp", map[string]any{"got": s})
		} else {
			info.Date = s
		}
	}
	return info
}

// reportDuplicate registers id at path in seen, reporting the duplicate at
// every occurrence including the first.
func (d *decoder) reportDuplicate(seen map[string]string, id, path string) {
	first, dup := seen[id]
	if !dup {
		seen[id] = path
		return
	}
	if first != "" {
		d.report(first, CodeDuplicateIdentifier, "", map[string]any{"id": id})
		seen[id] = "" // first occurrence reported once
	}
	d.report(path, CodeDuplicateIdentifier, "", map[string]any{"id": id})
}

func (d *decoder) decodeRegions(v *Value, path string, regionIDs map[string]string) []Region {
	if v.Kind != KindSequence {
		d.report(path, CodeWrongType, "expected sequence, got "+v.Kind.String(), nil)
		return []Region{}
	}
	out := make([]Region, 0, len(v.Elems))
	for i, el := range v.Elems {
		ep := indexPath(path, i)
		fields := d.fields(el, ep, regionDef)
		if fields == nil {
			continue
		}
		var r Region
		if id, ok := d.str(fields, regionDef, ep, "id"); ok {
			r.ID = id
			d.reportDuplicate(regionIDs, id, joinPath(ep, "id"))
		}
		if s, ok := d.str(fields, regionDef, ep, "name"); ok {
			r.Name = s
		}
		if s, ok := d.str(fields, regionDef, ep, "kind"); ok {
			r.Kind = RegionKind(s)
		}
		if lv, ok := fields["location"]; ok {
			r.Location = d.decodeLocation(lv, joinPath(ep, "location"))
		}
		out = append(out, r)
	}
	return out
}

func (d *decoder) decodeLocation(v *Value, path string) *SourceLocation {
	fields := d.fields(v, path, sourceLocationDef)
	if fields == nil {
		return nil
	}
	loc := &SourceLocation{}
	if s, ok := d.str(fields, sourceLocationDef, path, "file"); ok {
		loc.File = s
	}
	begin, haveBegin := d.intField(fields, sourceLocationDef, path, "beginLine")
	end, haveEnd := d.intField(fields, sourceLocationDef, path, "endLine")
	loc.BeginLine, loc.EndLine = begin, end
	if haveBegin && haveEnd && end < begin {
		d.report(joinPath(path, "endLine"), CodeOutOfRange,
			fmt.Sprintf("endLine %d precedes beginLine %d", end, begin), nil)
	}
	return loc
}

func (d *decoder) decodeMetrics(v *Value, path string) []MetricDefinition {
	if v.Kind != KindSequence {
		d.report(path, CodeWrongType, "expected sequence, got "+v.Kind.String(), nil)
		return []MetricDefinition{}
	}
	metricIDs := make(map[string]string)
	out := make([]MetricDefinition, 0, len(v.Elems))
	for i, el := range v.Elems {
		ep := indexPath(path, i)
		fields := d.fields(el, ep, metricDefinitionDef)
		if fields == nil {
			continue
		}
		var m MetricDefinition
		if id, ok := d.str(fields, metricDefinitionDef, ep, "id"); ok {
			m.ID = id
			d.reportDuplicate(metricIDs, id, joinPath(ep, "id"))
		}
		if s, ok := d.str(fields, metricDefinitionDef, ep, "name"); ok {
			m.Name = s
		}
		if s, ok := d.str(fields, metricDefinitionDef, ep, "unit"); ok {
			m.Unit = s
		}
		if s, ok := d.str(fields, metricDefinitionDef, ep, "type"); ok {
			m.Type = MetricType(s)
		}
		if f, ok := d.floatField(fields, metricDefinitionDef, ep, "scale"); ok {
			scale := Float(f)
			m.Scale = &scale
		}
		out = append(out, m)
	}
	return out
}

func (d *decoder) decodeNode(v *Value, path string, regionIDs, nodeIDs map[string]string, ancestors map[string]struct{}) *TopologyNode {
	fields := d.fields(v, path, topologyNodeDef)
	if fields == nil {
		return nil
	}
	node := &TopologyNode{Children: []*TopologyNode{}}
	onPath := false
	if id, ok := d.str(fields, topologyNodeDef, path, "id"); ok {
		node.ID = id
		if _, cyc := ancestors[id]; cyc {
			// a node repeating an ancestor identifier would close a cycle
			d.report(path, CodeCycleDetected, "", map[string]any{"id": id})
		} else {
			d.reportDuplicate(nodeIDs, id, joinPath(path, "id"))
			ancestors[id] = struct{}{}
			onPath = true
		}
	}
	if s, ok := d.str(fields, topologyNodeDef, path, "kind"); ok {
		node.Kind = NodeKind(s)
	}
	if s, ok := d.str(fields, topologyNodeDef, path, "entryRegion"); ok {
		if _, declared := regionIDs[s]; !declared {
			d.report(joinPath(path, "entryRegion"), CodeDanglingReference, "", map[string]any{"id": s})
		} else {
			node.EntryRegion = s
		}
	}
	if cv, ok := fields["children"]; ok {
		cp := joinPath(path, "children")
		if cv.Kind != KindSequence {
			d.report(cp, CodeWrongType, "expected sequence, got "+cv.Kind.String(), nil)
		} else {
			for i, el := range cv.Elems {
				child := d.decodeNode(el, indexPath(cp, i), regionIDs, nodeIDs, ancestors)
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}
		}
	}
	if onPath {
		delete(ancestors, node.ID)
	}
	return node
}
