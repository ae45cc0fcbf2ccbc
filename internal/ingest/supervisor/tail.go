package supervisor

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"
)

// maxLineSize bounds a single worker output line. Anything longer is a
// worker malfunction, and the reader gives up rather than buffer it
// without bound.
const maxLineSize = 1024 * 1024

// tailOutput scans the merged worker output line by line, echoing every
// line to the operational log and handing it to the sink. It returns when
// the stream ends. Read faults are logged and swallowed; they never feed
// into the restart policy.
func tailOutput(r io.Reader, sink LineSink, log *zap.Logger) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		log.Info(line)

		if sink != nil {
			sink.ConsumeLine(line)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Warn("output tail ended with error", zap.Error(err))
	}
}
