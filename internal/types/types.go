package types

type ProjectId string

// ApplicationScope is the project id used for process-wide scheme storage.
const ApplicationScope ProjectId = "_application"
