package ai

import (
	"github.com/icco/gomoku"
	"github.com/icco/gutil/logging"
)

var (
	log = logging.Must(logging.NewLogger(gomoku.Service))
)
