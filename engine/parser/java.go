package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// The extraction below is deliberately lexical: comments and literals are
// blanked out, then declarations are recognized with anchored patterns and
// brace matching. It trades full language fidelity for zero build-time
// requirements on the analyzed project; the analyzer's resolver is designed
// around exactly these raw-name facts.

var (
	packageRe = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)
	importRe  = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([\w.]+(?:\.\*)?)\s*;`)

	classDeclRe = regexp.MustCompile(
		`((?:(?:public|protected|private|static|final|abstract|strictfp)\s+)*)` +
			`(class|interface)\s+([A-Za-z_$][\w$]*)\s*(?:<[^{;]*?>)?` +
			`(?:\s+extends\s+([^{]+?))?` +
			`(?:\s+implements\s+([^{]+?))?` +
			`\s*\{`)

	methodDeclRe = regexp.MustCompile(
		`((?:(?:public|protected|private|static|final|abstract|synchronized|native|default|strictfp)\s+)*)` +
			`(?:<[^<>]+>\s*)?` +
			`([A-Za-z_$][\w$.]*(?:\s*<[^<>(){}]*>)?(?:\s*\[\s*\])*)\s+` +
			`([A-Za-z_$][\w$]*)\s*\(([^()]*)\)` +
			`\s*(?:throws\s+[\w$.,\s]+?)?\s*([{;])`)

	fieldDeclRe = regexp.MustCompile(
		`(?m)((?:(?:public|protected|private|static|final|transient|volatile)\s+)*)` +
			`([A-Za-z_$][\w$.]*(?:\s*<[^<>{}]*>)?(?:\s*\[\s*\])*)\s+` +
			`([A-Za-z_$][\w$]*)(?:\s*\[\s*\])*\s*(?:=[^;]*)?;`)

	newExprRe  = regexp.MustCompile(`\bnew\s+([A-Za-z_$][\w$.]*)`)
	callRe     = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*\(`)
	thisReadRe = regexp.MustCompile(`\bthis\s*\.\s*([A-Za-z_$][\w$]*)`)
)

var javaKeywords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {},
	"case": {}, "catch": {}, "char": {}, "class": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extends": {}, "final": {}, "finally": {}, "float": {},
	"for": {}, "goto": {}, "if": {}, "implements": {}, "import": {},
	"instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {},
	"return": {}, "short": {}, "static": {}, "strictfp": {}, "super": {},
	"switch": {}, "synchronized": {}, "this": {}, "throw": {}, "throws": {},
	"transient": {}, "try": {}, "void": {}, "volatile": {}, "while": {},
}

func isKeyword(name string) bool {
	_, ok := javaKeywords[name]
	return ok
}

// extractFileFacts turns raw Java source text into declaration facts
func extractFileFacts(src string) (*FileFacts, error) {
	clean := blankNoise(src)

	facts := &FileFacts{}
	if m := packageRe.FindStringSubmatch(clean); m != nil {
		facts.PackageName = m[1]
	}
	for _, m := range importRe.FindAllStringSubmatch(clean, -1) {
		facts.Imports = append(facts.Imports, m[1])
	}

	decls, err := findClassDecls(clean)
	if err != nil {
		return nil, err
	}
	for _, decl := range decls {
		facts.Classes = append(facts.Classes, parseClass(decl))
	}
	return facts, nil
}

type classDecl struct {
	modifiers  string
	keyword    string
	name       string
	extends    string
	implements string
	body       string
}

// findClassDecls locates every class/interface declaration in the text,
// nested declarations included, and carves out the matching body.
func findClassDecls(text string) ([]classDecl, error) {
	var decls []classDecl
	pos := 0
	for pos < len(text) {
		loc := classDeclRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		open := pos + loc[1] - 1 // index of the opening brace
		closing, ok := matchBrace(text, open)
		if !ok {
			name := group(text[pos:], loc, 3)
			return nil, fmt.Errorf("unbalanced braces in declaration of %q", name)
		}
		decls = append(decls, classDecl{
			modifiers:  group(text[pos:], loc, 1),
			keyword:    group(text[pos:], loc, 2),
			name:       group(text[pos:], loc, 3),
			extends:    group(text[pos:], loc, 4),
			implements: group(text[pos:], loc, 5),
			body:       text[open+1 : closing],
		})
		// Continue inside the header so nested declarations are found too.
		pos = pos + loc[1]
	}
	return decls, nil
}

func group(s string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return s[loc[2*n]:loc[2*n+1]]
}

func parseClass(decl classDecl) *ClassFacts {
	class := &ClassFacts{
		SimpleName:  decl.name,
		IsInterface: decl.keyword == "interface",
		IsAbstract:  strings.Contains(" "+decl.modifiers+" ", " abstract "),
		Supertypes:  splitTypeList(decl.extends),
		Interfaces:  splitTypeList(decl.implements),
	}

	body := blankNestedClasses(decl.body)
	body, class.Methods = extractMethods(body, decl.name)

	for _, m := range fieldDeclRe.FindAllStringSubmatch(body, -1) {
		typeName := strings.TrimSpace(m[2])
		base := fieldBaseName(typeName)
		if isKeyword(base) && !isPrimitiveName(base) {
			continue
		}
		if isKeyword(m[3]) {
			continue
		}
		class.Fields = append(class.Fields, FieldFacts{Name: m[3], Type: typeName})
	}

	fieldNames := make(map[string]struct{}, len(class.Fields))
	for _, f := range class.Fields {
		fieldNames[f.Name] = struct{}{}
	}
	for _, method := range class.Methods {
		resolveFieldReads(method, fieldNames)
	}
	return class
}

func fieldBaseName(typeName string) string {
	base := typeName
	if i := strings.IndexAny(base, "<["); i >= 0 {
		base = base[:i]
	}
	return strings.TrimSpace(base)
}

// blankNestedClasses erases nested class/interface declarations so their
// members are not attributed to the enclosing class. The nested classes
// themselves are still discovered by the outer findClassDecls scan.
func blankNestedClasses(body string) string {
	out := []byte(body)
	pos := 0
	for pos < len(body) {
		loc := classDeclRe.FindStringIndex(body[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		open := pos + loc[1] - 1
		closing, ok := matchBrace(body, open)
		if !ok {
			break
		}
		for i := start; i <= closing; i++ {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
		pos = closing + 1
	}
	return string(out)
}

// extractMethods pulls method declarations out of a class body and returns
// the residue with methods blanked, so field extraction only sees field
// declarations.
func extractMethods(body, className string) (string, []*MethodFacts) {
	var methods []*MethodFacts
	out := []byte(body)
	pos := 0
	for pos < len(body) {
		loc := methodDeclRe.FindStringSubmatchIndex(body[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		end := pos + loc[1]
		if depthAt(body, start) != 0 {
			pos = start + 1
			continue
		}

		returnType := strings.TrimSpace(group(body[pos:], loc, 2))
		name := group(body[pos:], loc, 3)
		params := group(body[pos:], loc, 4)
		terminator := group(body[pos:], loc, 5)

		// Rejected matches are skipped past the name token, otherwise the
		// rescan re-matches the same name with a truncated type group.
		nameEnd := pos + loc[7]

		base := fieldBaseName(returnType)
		if isKeyword(name) || (isKeyword(base) && !isPrimitiveName(base)) {
			pos = nameEnd
			continue
		}
		// Constructors are not methods: they only match this pattern when a
		// modifier leaks into the type group, so a name equal to the class
		// with a modifier-typed return is skipped.
		if name == className && (returnType == "" || isKeyword(base)) {
			pos = nameEnd
			continue
		}

		method := &MethodFacts{
			Name:          name,
			ReturnType:    returnType,
			ParamTypes:    paramTypes(params),
			FieldAccesses: make(map[string]struct{}),
			CalledMethods: make(map[string]struct{}),
		}

		blankEnd := end
		if terminator == "{" {
			closing, ok := matchBrace(body, end-1)
			if !ok {
				pos = start + 1
				continue
			}
			methodBody := body[end:closing]
			collectBodyFacts(method, methodBody)
			blankEnd = closing + 1
		}

		methods = append(methods, method)
		for i := start; i < blankEnd && i < len(out); i++ {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
		pos = blankEnd
	}
	return string(out), methods
}

// collectBodyFacts records method calls, object creations and this-scoped
// field reads from a method body.
func collectBodyFacts(method *MethodFacts, body string) {
	for _, m := range newExprRe.FindAllStringSubmatch(body, -1) {
		method.ConstructedTypes = append(method.ConstructedTypes, m[1])
	}
	for _, loc := range callRe.FindAllStringSubmatchIndex(body, -1) {
		name := body[loc[2]:loc[3]]
		if isKeyword(name) {
			continue
		}
		if precededByNew(body, loc[2]) {
			continue
		}
		method.CalledMethods[name] = struct{}{}
	}
	for _, m := range thisReadRe.FindAllStringSubmatch(body, -1) {
		method.FieldAccesses[m[1]] = struct{}{}
	}
	method.rawBody = body
}

// resolveFieldReads adds unqualified reads of known field names. The
// this-qualified reads are already present; bare reads can only be matched
// once the class's field set is known.
func resolveFieldReads(method *MethodFacts, fieldNames map[string]struct{}) {
	if method.rawBody == "" || len(fieldNames) == 0 {
		method.rawBody = ""
		return
	}
	for _, word := range identifierRe.FindAllString(method.rawBody, -1) {
		if _, ok := fieldNames[word]; ok {
			method.FieldAccesses[word] = struct{}{}
		}
	}
	method.rawBody = ""
}

var identifierRe = regexp.MustCompile(`[A-Za-z_$][\w$]*`)

func isPrimitiveName(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double", "void":
		return true
	}
	return false
}

var newPrefixRe = regexp.MustCompile(`\bnew\s+[\w$.]*$`)

func precededByNew(body string, idx int) bool {
	return newPrefixRe.MatchString(body[:idx])
}

// paramTypes splits a parameter list into its raw type names
func paramTypes(params string) []string {
	params = strings.TrimSpace(params)
	if params == "" {
		return nil
	}
	var types []string
	for _, param := range splitTopLevel(stripAngleContents(params)) {
		tokens := strings.Fields(strings.ReplaceAll(param, "...", " "))
		var typeToken string
		for _, tok := range tokens {
			if tok == "final" || strings.HasPrefix(tok, "@") {
				continue
			}
			typeToken = tok
			break
		}
		if typeToken != "" {
			types = append(types, typeToken)
		}
	}
	return types
}

// splitTypeList splits an extends/implements clause on top-level commas
func splitTypeList(clause string) []string {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return nil
	}
	var names []string
	for _, part := range splitTopLevel(stripAngleContents(clause)) {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// stripAngleContents removes generic argument lists, balanced
func stripAngleContents(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
				continue
			}
		}
		if depth == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '(', '[', '<':
			depth++
		case ')', ']', '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[last:]))
	return parts
}

// matchBrace returns the index of the brace closing the one at open
func matchBrace(text string, open int) (int, bool) {
	if open < 0 || open >= len(text) || text[open] != '{' {
		return 0, false
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// depthAt returns the brace depth at the given index
func depthAt(text string, idx int) int {
	depth := 0
	for i := 0; i < idx && i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}

// blankNoise replaces comments and string/char literal contents with
// spaces, preserving offsets and line structure so brace matching stays
// aligned with the original text.
func blankNoise(src string) string {
	out := []byte(src)
	const (
		code = iota
		lineComment
		blockComment
		stringLit
		charLit
	)
	state := code
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch state {
		case code:
			switch {
			case c == '/' && i+1 < len(src) && src[i+1] == '/':
				state = lineComment
				out[i] = ' '
			case c == '/' && i+1 < len(src) && src[i+1] == '*':
				state = blockComment
				out[i] = ' '
			case c == '"':
				state = stringLit
			case c == '\'':
				state = charLit
			}
		case lineComment:
			if c == '\n' {
				state = code
			} else {
				out[i] = ' '
			}
		case blockComment:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				out[i] = ' '
				out[i+1] = ' '
				i++
				state = code
			} else if c != '\n' {
				out[i] = ' '
			}
		case stringLit:
			switch {
			case c == '\\' && i+1 < len(src):
				out[i] = ' '
				out[i+1] = ' '
				i++
			case c == '"':
				state = code
			case c == '\n':
				state = code // tolerate unterminated literals
			default:
				out[i] = ' '
			}
		case charLit:
			switch {
			case c == '\\' && i+1 < len(src):
				out[i] = ' '
				out[i+1] = ' '
				i++
			case c == '\'':
				state = code
			case c == '\n':
				state = code
			default:
				out[i] = ' '
			}
		}
	}
	return string(out)
}
