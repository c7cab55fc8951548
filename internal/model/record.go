package model

// Record is one row of the file table.
type Record struct {
	ID       string `json:"id" yaml:"id" dynamodbav:"id"`
	Filepath string `json:"filepath" yaml:"filepath" dynamodbav:"filepath"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty" dynamodbav:"text,omitempty"`
	Status   string `json:"status,omitempty" yaml:"status,omitempty" dynamodbav:"status,omitempty"`
}

// StatusFinished marks a derived record written by an instance-scoped run.
const StatusFinished = "finished"
