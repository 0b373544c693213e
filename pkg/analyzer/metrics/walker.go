package metrics

import (
	"context"
	"log/slog"

	"github.com/TpouHuK/halstead-js/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// visitResult tells walk whether dispatch consumed the node.
type visitResult uint8

const (
	visitGeneric visitResult = iota // tally the node, then recurse into its children
	visitHandled                    // the node and its subtree are done
)

// Statement-level operator tokens and the statement operators each one adds.
var statementTokens = map[string]struct {
	token string
	count int
}{
	"if_statement":     {"if ...", 1},
	"for_statement":    {"for ...", 2},
	"for_in_statement": {"for ... in ...", 1},
	"while_statement":  {"while ...", 1},
	"do_statement":     {"do ... while ...", 1},
	"return_statement": {"return ...", 1},
	"throw_statement":  {"return ...", 1},
}

// Statements whose parenthesized head is syntax, not a grouping operator.
var conditionFields = map[string]string{
	"if_statement":     "condition",
	"while_statement":  "condition",
	"do_statement":     "condition",
	"switch_statement": "value",
}

// Expression-level operator tokens with a fixed spelling.
var expressionTokens = map[string]string{
	"arrow_function":           "=>",
	"statement_block":          "{}",
	"member_expression":        ".",
	"parenthesized_expression": "( )",
	"new_expression":           "new ...",
	"ternary_expression":       "? :",
	"subscript_expression":     "[ ... ]",
}

// Node kinds recorded as operands by their source text.
var operandKinds = map[string]bool{
	"identifier":                    true,
	"shorthand_property_identifier": true,
	"property_identifier":           true,
	"number":                        true,
	"string":                        true,
	"template_string":               true,
	"regex":                         true,
	"true":                          true,
	"false":                         true,
	"null":                          true,
	"undefined":                     true,
}

// walker carries the private state of one engine run.
type walker struct {
	source []byte
	tally  *tallyStore
	scopes scopeStack
	idents *identGraph
	logger *slog.Logger
	debug  bool
}

func newWalker(source []byte, logger *slog.Logger) *walker {
	return &walker{
		source: source,
		tally:  newTallyStore(),
		idents: newIdentGraph(),
		logger: logger,
		debug:  logger.Enabled(context.Background(), slog.LevelDebug),
	}
}

// run walks root. A root other than a program is walked inside a block frame.
func (w *walker) run(root *sitter.Node) error {
	wrapped := root.Type() != "program"
	if wrapped {
		w.scopes.enter(blockFrame())
	}
	if err := w.walk(root); err != nil {
		return err
	}
	if wrapped {
		w.scopes.exit()
	}

	if w.scopes.depth() != 0 || w.tally.ifDepth != 0 {
		panic("metrics: unbalanced walk")
	}
	return nil
}

func (w *walker) walk(node *sitter.Node) error {
	res, err := w.dispatch(node)
	if err != nil || res == visitHandled {
		return err
	}

	leave := w.openScope(node)
	w.tally.observeDepth()
	w.tallyNode(node)

	for i := range int(node.NamedChildCount()) {
		if err := w.walk(node.NamedChild(i)); err != nil {
			return err
		}
	}
	leave()
	return nil
}

// dispatch handles the node kinds that bypass generic traversal.
func (w *walker) dispatch(node *sitter.Node) (visitResult, error) {
	switch node.Type() {
	case "call_expression":
		return visitHandled, w.walkCall(node)
	case "variable_declarator", "assignment_expression", "augmented_assignment_expression":
		return visitHandled, w.walkAssignment(node)
	default:
		return visitGeneric, nil
	}
}

// openScope pushes the frame a construct introduces and returns its closer.
func (w *walker) openScope(node *sitter.Node) func() {
	switch node.Type() {
	case "if_statement":
		w.tally.enterDecision(1)
		w.tally.decisionCount++
		w.scopes.enter(controlFrame())
		return func() {
			w.scopes.exit()
			w.tally.exitDecision(1)
		}
	case "switch_statement":
		extra := max(countCases(node)-1, 0)
		w.tally.enterDecision(extra)
		w.tally.decisionCount += extra
		w.scopes.enter(controlFrame())
		return func() {
			w.scopes.exit()
			w.tally.exitDecision(extra)
		}
	case "program", "for_statement", "for_in_statement", "while_statement", "do_statement":
		w.scopes.enter(blockFrame())
		return w.scopes.exit
	default:
		return func() {}
	}
}

// countCases returns the number of non-default clauses of a switch.
func countCases(node *sitter.Node) int {
	body := node.ChildByFieldName("body")
	if body == nil {
		return 0
	}
	n := 0
	for i := range int(body.NamedChildCount()) {
		if body.NamedChild(i).Type() == "switch_case" {
			n++
		}
	}
	return n
}

// tallyNode records the operator or operand tokens for a single node.
func (w *walker) tallyNode(node *sitter.Node) {
	kind := node.Type()

	if st, ok := statementTokens[kind]; ok {
		if kind == "for_statement" && !hasInitializer(node) {
			return
		}
		token := st.token
		if kind == "for_in_statement" && w.fieldText(node, "operator") == "of" {
			token = "for ... of ..."
		}
		w.tally.recordOperator(token)
		w.countStatement(node, token, st.count)
		return
	}

	if token, ok := expressionTokens[kind]; ok {
		if kind == "parenthesized_expression" && isConditionHead(node) {
			return
		}
		w.tally.recordOperator(token)
		return
	}

	switch kind {
	case "binary_expression", "unary_expression", "update_expression":
		if op := w.fieldText(node, "operator"); op != "" {
			w.tally.recordOperator(op)
		}
		return
	}

	if operandKinds[kind] {
		text := parser.GetNodeText(node, w.source)
		w.tally.recordOperand(text)
		if kind == "identifier" || kind == "shorthand_property_identifier" {
			w.idents.observe(text, w.scopes.current())
		}
	}
}

// hasInitializer reports whether a for loop has an init clause. for (;;)
// carries an empty statement there.
func hasInitializer(node *sitter.Node) bool {
	init := node.ChildByFieldName("initializer")
	return init != nil && init.Type() != "empty_statement"
}

// isConditionHead reports whether node is the parenthesized condition of an
// if, while, do or switch statement.
func isConditionHead(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	field, ok := conditionFields[parent.Type()]
	if !ok {
		return false
	}
	head := parent.ChildByFieldName(field)
	return head != nil && head.StartByte() == node.StartByte() && head.EndByte() == node.EndByte()
}

func (w *walker) countStatement(node *sitter.Node, token string, count int) {
	w.tally.statementOperators += count
	if w.debug {
		w.logger.Debug("statement operator",
			"token", token,
			"line", node.StartPoint().Row+1,
			"total", w.tally.statementOperators)
	}
}

// walkCall tallies a call. The trailing segment of the callee names the
// operator; print and prompt mark the program's output and input.
func (w *walker) walkCall(node *sitter.Node) error {
	for i := range int(node.NamedChildCount()) {
		if child := node.NamedChild(i); child.Type() == "type_arguments" {
			return newMalformedInputError(child, w.source, ErrTypeArguments)
		}
	}

	if w.scopes.current().kind == scopeBlock {
		w.countStatement(node, "call", 1)
	}

	name, err := w.walkCallee(node.ChildByFieldName("function"))
	if err != nil {
		return err
	}

	switch name {
	case "print":
		w.scopes.enter(assignFrame(OutputSentinel))
		defer w.scopes.exit()
	case "prompt":
		if scope := w.scopes.current(); scope.kind == scopeAssignment {
			w.idents.observe(InputSentinel, scope)
		}
	}
	w.tally.recordOperator(name + "()")

	args := node.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	if args.Type() != "arguments" {
		// tagged template
		return w.walk(args)
	}
	for i := range int(args.NamedChildCount()) {
		if err := w.walk(args.NamedChild(i)); err != nil {
			return err
		}
	}
	return nil
}

// walkCallee walks the container part of a callee and returns the trailing
// name segment.
func (w *walker) walkCallee(callee *sitter.Node) (string, error) {
	if callee == nil {
		return "", nil
	}

	switch callee.Type() {
	case "identifier":
		return parser.GetNodeText(callee, w.source), nil
	case "member_expression", "subscript_expression", "parenthesized_expression":
		w.tallyNode(callee)
		last := int(callee.NamedChildCount()) - 1
		for i := range last {
			if err := w.walk(callee.NamedChild(i)); err != nil {
				return "", err
			}
		}
		if last < 0 {
			return "", nil
		}
		return parser.GetNodeText(callee.NamedChild(last), w.source), nil
	default:
		// Computed callees such as f()() or (function(){})() have no name.
		return "", w.walk(callee)
	}
}

// walkAssignment registers the target in the enclosing scope, then walks the
// right-hand side inside an assignment frame for that target.
func (w *walker) walkAssignment(node *sitter.Node) error {
	var target, value *sitter.Node
	op := "="
	switch node.Type() {
	case "variable_declarator":
		target = node.ChildByFieldName("name")
		value = node.ChildByFieldName("value")
	case "augmented_assignment_expression":
		op = w.fieldText(node, "operator")
		fallthrough
	default:
		target = node.ChildByFieldName("left")
		value = node.ChildByFieldName("right")
	}

	if target == nil || target.Type() != "identifier" {
		if target == nil {
			target = node
		}
		return newMalformedInputError(target, w.source, ErrUnsupportedTarget)
	}

	name := parser.GetNodeText(target, w.source)
	w.tally.recordOperand(name)
	w.idents.observe(name, w.scopes.current())
	if value == nil {
		return nil
	}

	w.tally.recordOperator(op)
	w.countStatement(node, op, 1)
	w.scopes.enter(assignFrame(name))
	if err := w.walk(value); err != nil {
		return err
	}
	w.scopes.exit()
	return nil
}

func (w *walker) fieldText(node *sitter.Node, field string) string {
	return parser.GetNodeText(node.ChildByFieldName(field), w.source)
}
