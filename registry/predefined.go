//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package registry

import (
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/metric/catalog"
	"trpc.group/trpc-go/trpc-scorecard-go/metric/group"
)

// Names of the predefined metrics.
const (
	MSE                 = "mse"
	RMSE                = "rmse"
	MAE                 = "mae"
	MAPE                = "mape"
	SMAPE               = "smape"
	R2                  = "r2"
	MaxError            = "max_error"
	MedianAbsoluteError = "median_absolute_error"
	ExplainedVariance   = "explained_variance"
	DirectionalAccuracy = "directional_accuracy"
	Accuracy            = "accuracy"
	Precision           = "precision"
	Recall              = "recall"
	F1                  = "f1"
	LogLoss             = "log_loss"
	BrierScore          = "brier_score"
	ResidualAnalysis    = "residual_analysis"
	ErrorHistogram      = "error_histogram"
)

type definition struct {
	name    string
	factory Factory
}

func single(name, display string, fn metric.Func, opts ...metric.Option) definition {
	opts = append([]metric.Option{metric.WithKey(name)}, opts...)
	return definition{
		name: name,
		factory: func() (metric.Evaluable, error) {
			return metric.New(display, fn, opts...)
		},
	}
}

var (
	regression = metric.WithCategory(metric.CategoryRegression)
	loss       = metric.WithPurpose(metric.PurposeLoss)
	objective  = metric.WithPurpose(metric.PurposeObjective)
)

var predefined = []definition{
	single(MSE, "Mean Squared Error", catalog.MSE, regression, loss),
	single(RMSE, "Root Mean Squared Error", catalog.RMSE, regression, loss),
	single(MAE, "Mean Absolute Error", catalog.MAE, regression, loss),
	single(MAPE, "Mean Absolute Percentage Error", catalog.MAPE, regression, loss),
	single(SMAPE, "Symmetric Mean Absolute Percentage Error", catalog.SMAPE, regression, loss),
	single(R2, "R2 Score", catalog.R2, regression, objective),
	single(MaxError, "Max Error", catalog.MaxError, regression, loss),
	single(MedianAbsoluteError, "Median Absolute Error", catalog.MedianAbsoluteError, regression, loss,
		metric.WithComplexity(metric.ComplexityMedium)),
	single(ExplainedVariance, "Explained Variance", catalog.ExplainedVariance, regression, objective),
	single(DirectionalAccuracy, "Directional Accuracy", catalog.DirectionalAccuracy, objective,
		metric.WithCategory(metric.CategoryTimeSeries),
		metric.WithSampleRestriction(metric.SampleOutOfSample)),
	single(Accuracy, "Accuracy", catalog.Accuracy, objective,
		metric.WithCategory(metric.CategoryClassification)),
	single(Precision, "Precision", catalog.Precision, objective,
		metric.WithCategory(metric.CategoryClassification),
		metric.WithParameters(metric.Parameters{catalog.ParamPositiveLabel: 1.0})),
	single(Recall, "Recall", catalog.Recall, objective,
		metric.WithCategory(metric.CategoryClassification),
		metric.WithParameters(metric.Parameters{catalog.ParamPositiveLabel: 1.0})),
	single(F1, "F1 Score", catalog.F1, objective,
		metric.WithCategory(metric.CategoryClassification),
		metric.WithParameters(metric.Parameters{catalog.ParamPositiveLabel: 1.0})),
	single(LogLoss, "Log Loss", catalog.LogLoss, loss,
		metric.WithCategory(metric.CategoryProbabilistic),
		metric.WithParameters(metric.Parameters{catalog.ParamEps: 1e-15})),
	single(BrierScore, "Brier Score", catalog.BrierScore, loss,
		metric.WithCategory(metric.CategoryProbabilistic)),
	single(ErrorHistogram, "Error Histogram", catalog.ErrorHistogram,
		metric.WithCategory(metric.CategoryResiduals),
		metric.WithPurpose(metric.PurposeDiagram),
		metric.WithComplexity(metric.ComplexityMedium),
		metric.WithParameters(metric.Parameters{catalog.ParamBins: 10}),
		metric.WithFigure(catalog.HistogramFigure)),
	{name: ResidualAnalysis, factory: residualAnalysis},
}

func residualAnalysis() (metric.Evaluable, error) {
	residuals := metric.WithCategory(metric.CategoryResiduals)
	// Bias and autocorrelation are signed, so a lower value is not a better model.
	diagram := metric.WithPurpose(metric.PurposeDiagram)
	mean, err := metric.New("Residual Mean", catalog.Mean, metric.WithKey("residual_mean"), residuals, diagram,
		metric.WithDescription("Bias of the forecast: mean of targets minus predictions."))
	if err != nil {
		return nil, err
	}
	std, err := metric.New("Residual Std", catalog.StdDev, metric.WithKey("residual_std"), residuals, loss)
	if err != nil {
		return nil, err
	}
	acf, err := metric.New("Residual Autocorrelation", catalog.Autocorrelation,
		metric.WithKey("residual_autocorrelation"), residuals, diagram,
		metric.WithParameters(metric.Parameters{catalog.ParamLag: 1}))
	if err != nil {
		return nil, err
	}
	return group.New("Residual Analysis", catalog.Residuals, []*metric.Metric{mean, std, acf},
		group.WithKey(ResidualAnalysis))
}
