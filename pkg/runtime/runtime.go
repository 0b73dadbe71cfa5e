package runtime

var (
	Version   = "0.0.0-dev"
	GitCommit string
	Timestamp string
)
