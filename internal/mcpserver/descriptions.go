package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeAnalyzeMetrics() string {
	return `Computes Halstead, Djilb and Chepin metrics for JavaScript and TypeScript programs.

USE WHEN:
- Estimating the size and vocabulary of a script
- Checking how densely a program branches and how deeply ifs nest
- Comparing the structure of several files before a refactor

INTERPRETING RESULTS:
- Program statements: branches, loops, returns, throws, assignments and block-level calls
- Djilb CL: number of decisions (each if, plus extra switch cases)
- Djilb cl: decisions per statement; above 0.5 the program is mostly branching
- Djilb CLI: deepest if nesting; above 4 consider early returns or extraction
- Halstead volume grows with both length and vocabulary

METRICS RETURNED:
- Per-file: operator and operand tallies, four labelled properties, Halstead block,
  Chepin groups, identifier summaries, threshold violations
- Summary: totals, max and percentile if depth, mean and stddev of volume`
}

func describeChepinGroups() string {
	return `Classifies every variable of a JavaScript program into Chepin's P, M, C and T groups.

USE WHEN:
- Tracing which variables carry user input toward output
- Finding variables that never influence output
- Scoring data complexity with Chepin's Q = P + 2M + 3C + 0.5T

INTERPRETING RESULTS:
- P: assigned directly from prompt() input
- M: assigned and used toward output
- C: appears in an if or switch condition
- T: transient, never reaches print(); often dead or debug state
- used_with lists the identifiers each variable was combined with

METRICS RETURNED:
- Per-file: the four groups, the Q score, identifier summaries with occurrences`
}
