package pipeline

// Stage names one step of a run, in execution order.
type Stage string

const (
	StageResolveID    Stage = "resolve_id"
	StageFetchRecord  Stage = "fetch_record"
	StageParseLocator Stage = "parse_locator"
	StageDownloadBlob Stage = "download_blob"
	StageTransform    Stage = "transform"
	StageUploadBlob   Stage = "upload_blob"
	StageWriteRecord  Stage = "write_record"
	StageNotify       Stage = "notify"
)

// Stages lists the stages every run goes through; StageNotify only runs
// when sinks are configured.
var Stages = []Stage{
	StageResolveID,
	StageFetchRecord,
	StageParseLocator,
	StageDownloadBlob,
	StageTransform,
	StageUploadBlob,
	StageWriteRecord,
}

// StageError tells which stage aborted the run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return string(e.Stage) + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }
