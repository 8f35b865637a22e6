package gateway

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"vidmerge/internal/media"
	"vidmerge/internal/model"
	"vidmerge/internal/util"
)

// fieldReasons maps struct fields to the reason reported when their tag fails.
var fieldReasons = map[string]error{
	"OutputDir":        ErrNoOutputDir,
	"Items":            ErrEmptyQueue,
	"Angle":            ErrUnsupportedRotation,
	"Factor":           ErrInvalidSpeed,
	"Start":            ErrInvalidTrimRange,
	"Duration":         ErrInvalidTrimRange,
	"PerImageDuration": ErrInvalidImageDuration,
	"Format":           ErrUnsupportedAudioFormat,
}

// check validates req without touching any external process.
func (g *Gateway) check(req model.Request) error {
	if req == nil {
		return invalid("", ErrUnknownRequest, "nil request")
	}
	op := req.Op()

	if err := g.validate.Struct(req); err != nil {
		return fromValidator(op, err)
	}
	if err := util.CheckWritableDir(req.Dir()); err != nil {
		return invalid(op, ErrOutputDirUnusable, err.Error())
	}

	switch v := req.(type) {
	case model.Merge:
		if err := checkKind(op, v.Items, media.KindVideo); err != nil {
			return err
		}
	case model.MergeImages:
		if err := checkKind(op, v.Items, media.KindImage); err != nil {
			return err
		}
	case model.ChangeSpeed, model.Trim, model.ExtractAudio, model.Compress, model.Rotate:
		if it := model.Sources(req)[0]; it.Path == "" {
			return invalid(op, ErrNoInput, "")
		}
	default:
		return invalid(op, ErrUnknownRequest, fmt.Sprintf("%T", req))
	}

	for _, it := range model.Sources(req) {
		if !it.Exists() {
			return invalid(op, ErrSourceMissing, it.Path)
		}
	}
	return nil
}

func checkKind(op model.Op, items []media.Item, want media.Kind) error {
	kind, err := media.Homogeneous(items)
	switch {
	case errors.Is(err, media.ErrNoItems):
		return invalid(op, ErrEmptyQueue, "")
	case errors.Is(err, media.ErrMixedKinds):
		return invalid(op, ErrMixedMedia, "")
	case err != nil:
		return invalid(op, ErrUnsupportedMedia, err.Error())
	}
	if kind != want {
		return invalid(op, ErrWrongMediaKind, fmt.Sprintf("expected %s files, got %s", want, kind))
	}
	return nil
}

// fromValidator converts struct-tag failures. A missing output dir wins over
// other field errors so the user fixes the destination first.
func fromValidator(op model.Op, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid(op, ErrUnknownRequest, err.Error())
	}
	first := verrs[0]
	for _, fe := range verrs {
		if fe.Field() == "OutputDir" {
			first = fe
			break
		}
	}
	reason, ok := fieldReasons[first.Field()]
	if !ok {
		reason = ErrUnknownRequest
	}
	return invalid(op, reason, fmt.Sprintf("%s=%v", first.Field(), first.Value()))
}
