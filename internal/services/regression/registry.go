package regression

import (
	"errors"
	"fmt"
)

// ErrUnknownModel is returned for a model name outside the registry.
var ErrUnknownModel = errors.New("unknown model")

// Model names a supported regression algorithm.
type Model string

const (
	ModelLinearRegression Model = "Linear Regression"
	ModelKNeighbors       Model = "K-Nearest Neighbors"
	ModelRandomForest     Model = "Random Forest"
	ModelGradientBoosting Model = "Gradient Boosting"
	ModelXGBoost          Model = "XGBoost"
	ModelSVM              Model = "Support Vector Machines"
	ModelExtraTrees       Model = "Extra Trees"
)

func (m Model) String() string { return string(m) }

var models = []Model{
	ModelLinearRegression,
	ModelKNeighbors,
	ModelRandomForest,
	ModelGradientBoosting,
	ModelXGBoost,
	ModelSVM,
	ModelExtraTrees,
}

var constructors = map[Model]func() Regressor{
	ModelLinearRegression: func() Regressor { return NewLinearRegression() },
	ModelKNeighbors:       func() Regressor { return NewKNeighborsRegressor() },
	ModelRandomForest:     func() Regressor { return NewRandomForestRegressor() },
	ModelGradientBoosting: func() Regressor { return NewGradientBoostingRegressor() },
	ModelXGBoost:          func() Regressor { return NewXGBRegressor(WithVerbosity(0)) },
	ModelSVM:              func() Regressor { return NewLinearSVR() },
	ModelExtraTrees:       func() Regressor { return NewExtraTreesRegressor() },
}

// SelectRegressor returns a freshly constructed, unfitted estimator for name.
// There is no default model: an unrecognised name is an error.
func SelectRegressor(name string) (Regressor, error) {
	ctor, ok := constructors[Model(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return ctor(), nil
}

// Models lists the supported models in registry order.
func Models() []Model {
	return append([]Model(nil), models...)
}

// ModelNames lists the supported model names in registry order.
func ModelNames() []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = string(m)
	}
	return out
}
