package errors

import "fmt"

type Kind string

const (
	// Setup failures abort before any file is touched.
	InvalidConfig Kind = "invalid_config"
	NotFound      Kind = "not_found"
	// Per-file failures are recorded and reported after the run.
	MetadataFailure Kind = "metadata_failure"
	CodecFailure    Kind = "codec_failure"
	IOFailure       Kind = "io_failure"
	// Ingestion failures degrade geotagging to "no match"; they only warn.
	IngestionFailure Kind = "ingestion_failure"
	Internal         Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

func UserMessage(err error) string {
	appErr, ok := err.(*AppError)
	if !ok {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case NotFound:
		return fmt.Sprintf("Path not found: %s", appErr.Path)
	case MetadataFailure:
		return fmt.Sprintf("Metadata read failed: %s", appErr.Path)
	case CodecFailure:
		return fmt.Sprintf("Image processing failed: %s", appErr.Path)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s", appErr.Path)
	case IngestionFailure:
		return fmt.Sprintf("Track log ignored: %s", appErr.Path)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
