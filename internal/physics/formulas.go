package physics

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/constgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// RegisterFormulas registers every compute function of the pm model. It must
// be called exactly once per registry instance; duplicate registration panics
// by the registry's contract.
func RegisterFormulas(reg *registry.Registry) {
	reg.Register("geometry.volume_factor", computeVolumeFactor)
	reg.Register("geometry.curvature_index", computeCurvatureIndex)
	reg.Register("pm.alpha_inverse", computeAlphaInverse)
	reg.Register("pm.mass_ratio", computeMassRatio)
	reg.Register("pm.weak_angle", computeWeakAngle)
}

// inputNumber extracts a numeric input by name, with a descriptive error when
// the graph wiring and the formula disagree about the input set.
func inputNumber(inputs map[string]cty.Value, name string) (float64, error) {
	value, ok := inputs[name]
	if !ok {
		return 0, fmt.Errorf("missing input '%s'", name)
	}
	if value.Type() != cty.Number {
		return 0, fmt.Errorf("input '%s' is %s, want number", name, value.Type().FriendlyName())
	}
	number, _ := value.AsBigFloat().Float64()
	return number, nil
}

func computeVolumeFactor(_ context.Context, inputs map[string]cty.Value) (cty.Value, error) {
	b2, err := inputNumber(inputs, "topology.b2")
	if err != nil {
		return cty.NilVal, err
	}
	b3, err := inputNumber(inputs, "topology.b3")
	if err != nil {
		return cty.NilVal, err
	}
	return cty.NumberFloatVal((b3 - b2) / 7), nil
}

func computeCurvatureIndex(_ context.Context, inputs map[string]cty.Value) (cty.Value, error) {
	chi, err := inputNumber(inputs, "topology.chi")
	if err != nil {
		return cty.NilVal, err
	}
	nu, err := inputNumber(inputs, "topology.nu")
	if err != nil {
		return cty.NilVal, err
	}
	if nu == 0 {
		return cty.NilVal, fmt.Errorf("curvature index undefined for nu = 0")
	}
	return cty.NumberFloatVal(chi/2 + nu), nil
}

func computeAlphaInverse(_ context.Context, inputs map[string]cty.Value) (cty.Value, error) {
	vf, err := inputNumber(inputs, "geometry.volume_factor")
	if err != nil {
		return cty.NilVal, err
	}
	ci, err := inputNumber(inputs, "geometry.curvature_index")
	if err != nil {
		return cty.NilVal, err
	}
	if ci == 0 {
		return cty.NilVal, fmt.Errorf("alpha_inverse undefined for zero curvature index")
	}
	base := 4*math.Pow(math.Pi, 3) + math.Pow(math.Pi, 2) + math.Pi
	return cty.NumberFloatVal(base + vf/(ci*1000)), nil
}

func computeMassRatio(_ context.Context, inputs map[string]cty.Value) (cty.Value, error) {
	vf, err := inputNumber(inputs, "geometry.volume_factor")
	if err != nil {
		return cty.NilVal, err
	}
	nu, err := inputNumber(inputs, "topology.nu")
	if err != nil {
		return cty.NilVal, err
	}
	return cty.NumberFloatVal(8 * math.Pow(math.Pi, 4) * (1 + vf/nu)), nil
}

func computeWeakAngle(_ context.Context, inputs map[string]cty.Value) (cty.Value, error) {
	ci, err := inputNumber(inputs, "geometry.curvature_index")
	if err != nil {
		return cty.NilVal, err
	}
	return cty.NumberFloatVal(math.Sin(math.Pi/ci) * 3), nil
}
