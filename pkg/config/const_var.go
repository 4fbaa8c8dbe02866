package config

import "time"

// env keys
const (
	AGENT_ID          = "AGENT_ID"
	AGENT_KEY         = "AGENT_KEY"
	ACCESS_KEY_ID     = "ACCESS_KEY_ID"
	ACCESS_KEY_SECRET = "ACCESS_KEY_SECRET"
	ACCESS_KEY_TOKEN  = "ACCESS_KEY_TOKEN"
)

// run status as reported by the job platform
const (
	RUN_RUNNING   = "Running"
	RUN_COMPLETED = "Completed"
	RUN_FAILED    = "Failed"
	RUN_CANCELED  = "Canceled"
)

// operation verbs with fixed entry points
const (
	VERB_TRAIN          = "train"
	VERB_BATCHINFERENCE = "batchinference"
	VERB_DEPLOY         = "deploy"
)

// operation output nouns
const (
	NOUN_MODELS          = "models"
	NOUN_ENDPOINTS       = "endpoints"
	NOUN_INFERENCERESULT = "inferenceresult"
)

// api version source types
const (
	SOURCE_GIT      = "git"
	SOURCE_PIPELINE = "amlPipeline"
)

const (
	HTTPTIMEOUT = 60 * time.Second

	// fixed output artifact path on a child run
	RUN_OUTPUT_PATH = "outputs/output.json"
)

// ERROR message
const (
	INTERNALERROR = "an internal error"
	BADREQUEST    = "bad request body"
	NOTFOUND      = "not found"
	NOTSUPPORTED  = "operation not supported"
)

// user roles
const (
	ROLE_ADMIN = "Admin"
	ROLE_USER  = "User"
)
