// Package stack parses the text printed by `py-spy dump` into frames.
//
// The sampler has two known output dialects and the caller does not say
// which one is active, so every line is offered to an ordered list of
// [Matcher] functions and the first that accepts it produces a [Frame]:
//
//	File "/app/main.py", line 10, in main      (quoted-file dialect)
//	run (/app/worker.py:42)                    (inline dialect)
//
// Lines no matcher accepts (thread headers, locals, blank lines) are
// skipped. [Parse] never fails.
package stack
