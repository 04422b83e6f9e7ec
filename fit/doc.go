// Package fit provides chi-square fits of model functions to resampled data.
//
// A fit is described once by Dispatch, which resolves a model tag into a
// Descriptor holding the residual, Jacobian, Hessian, guess and
// linearisation functions together with the parameter map of a
// multi-dataset fit. The Descriptor is then evaluated on the averages by
// Minimize or on every sample by FitResampled.
//
// # Usage
//
//	data := &fit.Dataset{X: xs, Y: ys, LT: 64}
//	desc, err := fit.Dispatch(fit.NewContext(1), fit.ModelTypeExp, fit.ModelConfig{N: 1}, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	winv, err := fit.Weights(data, format.WeightingCorrelated)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := fit.FitResampled(ctx, desc, data, winv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Params[1]) // the mass
//
// # Models
//
//   - **exp**: Σ Aₖ·exp(−mₖ·x), guessed by Pade-Laplace
//   - **expconst**: A·exp(−m·x) + C, guessed from the differenced data
//   - **cosh**: Σ Aₖ·(exp(−mₖ·x) + exp(−mₖ·(LT−x)))
//   - **poly**: Σ cₖ·(x − x_ref)ᵏ, solved directly by GLS
//   - **pole**: A / (M − x)
//   - **ratio**: R·(1 + A·exp(−Δ·x))
//
// # Parameter Sharing
//
// ModelConfig.Shared marks the parameter positions common to all datasets.
// Logical parameters are numbered dataset by dataset: dataset 0 takes the
// first Nparam indices and every later dataset only allocates its
// independent positions. Priors refer to these logical indices.
package fit
