package drawer

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-stream/internal/store"
	"github.com/askiada/go-stream/pkg/pipeline/measure"
	"github.com/askiada/go-stream/pkg/pipeline/model"
)

var shapes = map[model.Kind]string{
	model.KindTransform: "box",
	model.KindFilter:    "diamond",
	model.KindExpand:    "trapezium",
}

// DOTDrawer draws the processor chain as a DOT graph. Stages running at the same loop level
// share a DOT group; every expand stage opens the next level.
type DOTDrawer struct {
	graph graph.Graph[string, string]
	store *store.OrderedStore[string, string]
}

// NewDOTDrawer creates an empty drawer.
func NewDOTDrawer() *DOTDrawer {
	st := store.NewOrderedStore[string, string]()

	return &DOTDrawer{
		graph: graph.NewWithStore(graph.StringHash, st, graph.Directed()),
		store: st,
	}
}

// AddStage adds a stage to the graph, shaped by its kind.
func (d *DOTDrawer) AddStage(stage *model.StageInfo) error {
	attrs := []func(*graph.VertexProperties){
		graph.VertexAttribute("group", "level"+strconv.Itoa(stage.Depth)),
	}
	if shape, ok := shapes[stage.Kind]; ok {
		attrs = append(attrs, graph.VertexAttribute("shape", shape))
	}

	err := d.graph.AddVertex(stage.Name, attrs...)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", stage.Name)
	}

	return nil
}

// AddLink adds a link between parent and child stages.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels every stage with its calls and average duration, and every link with the
// number of values that crossed it, coloured from blue (fewest) to red (most).
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	flows, err := d.flows(msr)
	if err != nil {
		return err
	}
	if len(flows) == 0 {
		return nil
	}

	volumes := make([]int64, 0, len(flows))
	for _, n := range flows {
		volumes = append(volumes, n)
	}
	sort.Slice(volumes, func(i, j int) bool { return volumes[i] < volumes[j] })
	minValue, maxValue := volumes[0], volumes[len(volumes)-1]

	for lnk, n := range flows {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(n-minValue) / float64(maxValue-minValue)
		}
		red := maxRGB * fraction
		blue := maxRGB - red

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		err = d.graph.UpdateEdge(lnk.source, lnk.target,
			graph.EdgeAttribute("label", strconv.FormatInt(n, 10)),
			graph.EdgeAttribute("fontcolor", "blue"),
			graph.EdgeAttribute("color", colour.ToHEX().String()),
		)
		if err != nil {
			return errors.Wrap(err, "unable to update edge")
		}
	}

	return d.labelStages(msr)
}

type link struct {
	source, target string
}

// flows returns, for every link, how many values its source stage passed on. For an expand
// stage that is the number of values it expanded.
func (d *DOTDrawer) flows(msr measure.Measure) (map[link]int64, error) {
	edges, err := d.store.ListEdges()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list edges")
	}

	res := make(map[link]int64, len(edges))
	for _, edge := range edges {
		mt := msr.GetMetric(edge.Source)
		if mt == nil {
			continue
		}
		res[link{source: edge.Source, target: edge.Target}] = mt.Count(model.OutcomePassed) + mt.Count(model.OutcomeExpanded)
	}

	return res, nil
}

func (d *DOTDrawer) labelStages(msr measure.Measure) error {
	for name, mt := range msr.AllMetrics() {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			if errors.Is(err, graph.ErrVertexNotFound) {
				continue
			}

			return errors.Wrap(err, "unable to get vertex properties")
		}

		parts := []string{}
		if calls := mt.Calls(); calls > 0 {
			parts = append(parts, fmt.Sprintf("calls: %d", calls))
		}
		if avg := mt.AVGDuration(); avg != 0 {
			parts = append(parts, "avg: "+avg.String())
		}
		if rejected := mt.Count(model.OutcomeRejected); rejected > 0 {
			parts = append(parts, fmt.Sprintf("rejected: %d", rejected))
		}
		if name == model.SinkStageName {
			parts = append(parts, fmt.Sprintf("emitted: %d", mt.Count(model.OutcomePassed)))
		}
		if mt.GetTotalDuration() > 0 {
			parts = append(parts, "end: "+mt.GetTotalDuration().String())
		}
		if len(parts) > 0 {
			properties.Attributes["xlabel"] = strings.Join(parts, ", ")
		}
	}

	return nil
}

// Render writes the graph in DOT format.
func (d *DOTDrawer) Render(wrt io.Writer) error {
	desc, err := d.generateDOT()
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

// generateDOT walks vertices and edges in insertion order so the output is stable.
func (d *DOTDrawer) generateDOT() (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   map[string]string{"rankdir": "LR"},
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	vertices, err := d.store.ListVertices()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list vertices")
	}

	for _, vertex := range vertices {
		_, sourceProperties, err := d.graph.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		attributes := make(map[string]string, len(sourceProperties.Attributes))
		for k, v := range sourceProperties.Attributes {
			attributes[k] = v
		}

		if xlabel, ok := attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)

			delete(attributes, "xlabel")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})
	}

	edges, err := d.store.ListEdges()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list edges")
	}

	for _, edge := range edges {
		desc.Statements = append(desc.Statements, statement{
			Source:         edge.Source,
			Target:         edge.Target,
			EdgeWeight:     edge.Properties.Weight,
			EdgeAttributes: edge.Properties.Attributes,
		})
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
