package metric

import "fmt"

// ExactMatch compares the predicted and reference values for equality
// after optional normalization. Args:
//
//	pred_path: path into the predicted value (default "$")
//	ref_path:  path into the reference value (default "$")
//	normalize: {lowercase: bool, strip_whitespace: bool}
type ExactMatch struct{}

// Type returns the scorer identifier.
func (ExactMatch) Type() string { return "exact_match" }

// ValidateArgs checks the exact_match arguments.
func (ExactMatch) ValidateArgs(args map[string]any) error {
	if err := validatePathArgs(args); err != nil {
		return fmt.Errorf("exact_match: %w", err)
	}
	return nil
}

// Score returns 1.0 when the normalized values match, else 0.0.
func (ExactMatch) Score(predicted, reference any, args map[string]any) (float64, error) {
	pred, ref, opts, err := resolvePair(predicted, reference, args)
	if err != nil {
		return 0, fmt.Errorf("exact_match: %w", err)
	}

	if opts.apply(stringify(pred)) == opts.apply(stringify(ref)) {
		return 1.0, nil
	}
	return 0.0, nil
}

// resolvePair applies pred_path/ref_path to the predicted and reference
// values and returns the normalization options.
func resolvePair(predicted, reference any, args map[string]any) (any, any, normalizeOpts, error) {
	var opts normalizeOpts

	predPath, err := pathArg(args, argPredPath)
	if err != nil {
		return nil, nil, opts, err
	}
	refPath, err := pathArg(args, argRefPath)
	if err != nil {
		return nil, nil, opts, err
	}
	opts, err = normalizeArgs(args)
	if err != nil {
		return nil, nil, opts, err
	}

	pred, err := predPath.Eval(predicted)
	if err != nil {
		return nil, nil, opts, fmt.Errorf("resolve predicted: %w", err)
	}
	ref, err := refPath.Eval(reference)
	if err != nil {
		return nil, nil, opts, fmt.Errorf("resolve reference: %w", err)
	}
	return pred, ref, opts, nil
}
