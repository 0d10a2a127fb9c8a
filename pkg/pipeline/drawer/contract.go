package drawer

import (
	"io"

	"github.com/askiada/go-stream/pkg/pipeline/measure"
	"github.com/askiada/go-stream/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStage adds a stage to the pipeline drawer.
	AddStage(stage *model.StageInfo) error
	// AddLink adds a link between parent and child stages.
	AddLink(parentStageName, childStageName string) error
	// AddMeasure labels stages and links with the metrics collected by measure.
	AddMeasure(measure measure.Measure) error
	// Render writes the pipeline graph in DOT format.
	Render(w io.Writer) error
}
