package sampler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/pkg"
)

// Interpreters are the commands tried, in order, when no interpreter is
// configured.
var Interpreters = [][]string{{"python3"}, {"python"}, {"py", "-3"}}

const versionProbe = "import sys; print(sys.version_info[0])"

// FindInterpreter returns the command line of a Python 3 interpreter. An
// explicit command is returned unchecked; otherwise the first of
// [Interpreters] reporting major version 3 wins.
func FindInterpreter(
	ctx context.Context, run Runner, logger log.Logger, explicit ...string,
) ([]string, error) {
	if len(explicit) > 0 && explicit[0] != "" {
		return explicit, nil
	}

	for _, argv := range Interpreters {
		args := append(append([]string{}, argv[1:]...), "-c", versionProbe)

		stdout, _, err := run(ctx, nil, argv[0], args...)
		if err != nil {
			logger.TraceContext(ctx, "interpreter probe failed",
				slog.String("command", strings.Join(argv, " ")),
				slog.Any("error", err),
			)

			continue
		}

		if strings.TrimSpace(string(stdout)) == "3" {
			logger.DebugContext(ctx, "found interpreter",
				slog.String("command", strings.Join(argv, " ")),
			)

			return argv, nil
		}
	}

	return nil, pkg.ErrNoInterpreter
}
