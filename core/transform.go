package core

// Transformer mutates a Notebook in place.
type Transformer interface {
	Transform(nb *Notebook) error
}

// Chain applies transformers in order, stopping at the first error.
func Chain(nb *Notebook, transformers ...Transformer) error {
	for _, tr := range transformers {
		if err := tr.Transform(nb); err != nil {
			return err
		}
	}
	return nil
}
