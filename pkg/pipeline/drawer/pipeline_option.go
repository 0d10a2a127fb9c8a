package drawer

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-stream/pkg/pipeline/measure"
	"github.com/askiada/go-stream/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m    measure.Measure
	w    io.Writer
	last string
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStage(&model.StageInfo{Name: model.SourceStageName, Index: -1})
	if err != nil {
		return errors.Wrap(err, "unable to add source stage to drawer")
	}
	pd.last = model.SourceStageName

	return nil
}

func (pd *pipelineDrawer) PrepareStage(parent, stage *model.StageInfo) error {
	err := pd.AddStage(stage)
	if err != nil {
		return err
	}
	err = pd.AddLink(parent.Name, stage.Name)
	if err != nil {
		return err
	}
	pd.last = stage.Name

	return nil
}

func (pd *pipelineDrawer) OnStageOutput(*model.StageInfo, model.Outcome, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish(model.Summary) error {
	err := pd.AddStage(&model.StageInfo{Name: model.SinkStageName, Index: -1})
	if err != nil {
		return errors.Wrap(err, "unable to add sink stage to drawer")
	}
	err = pd.AddLink(pd.last, model.SinkStageName)
	if err != nil {
		return err
	}

	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Render(pd.w)
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer returns an observer drawing the chain to w once the execution ends. When
// measure is not nil, it must be attached to the same pipeline, before the drawer.
func PipelineDrawer(drawer Drawer, measure measure.Measure, w io.Writer) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure, w: w}
}
