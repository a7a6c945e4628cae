package cli

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nanoncore/nano-routeros/types"
	"github.com/nanoncore/nano-routeros/vendors/common"
)

// singleItem menus have no rows; print on them is answered with "get".
var singleItem = map[string]bool{
	"/system/resource": true,
	"/system/identity": true,
	"/system/clock":    true,
}

// consoleFailure matches the first line of output the console prints when it rejects a command.
var consoleFailure = regexp.MustCompile(`(?i)^(failure:|syntax error|bad command name|expected |no such item|input does not match|invalid |ambiguous value|value of .+ out of range|already have|not enough permissions)`)

// consoleLine translates an API style command ("/ppp/secret/set") with its
// params into one line of console syntax. Mutations are wrapped in :put so
// that add prints the new id.
func consoleLine(command string, params map[string]string) (string, error) {
	idx := strings.LastIndex(command, "/")
	if idx <= 0 || idx == len(command)-1 {
		return "", fmt.Errorf("malformed command %q", command)
	}
	path, verb := command[:idx], command[idx+1:]
	menu := strings.ReplaceAll(path, "/", " ")
	menu = "/" + strings.TrimPrefix(menu, " ")

	attrs, queries := splitParams(params)

	if verb == "print" {
		if singleItem[path] {
			return fmt.Sprintf(":put [%s get]", menu), nil
		}
		line := menu + " print terse show-ids without-paging"
		if len(queries) > 0 {
			line += " where " + strings.Join(queries, " and ")
		}
		return line, nil
	}

	words := []string{menu, verb}
	if id, ok := params[".id"]; ok {
		words = append(words, "numbers="+id)
	}
	words = append(words, attrs...)
	line := strings.Join(words, " ")
	if verb == "add" {
		line = ":put [" + line + "]"
	}
	return line, nil
}

// splitParams renders attribute and query params as key="value" words, sorted by key.
func splitParams(params map[string]string) (attrs, queries []string) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch {
		case k == ".id":
		case strings.HasPrefix(k, "?"):
			queries = append(queries, strings.TrimPrefix(k, "?")+"="+quote(params[k]))
		default:
			attrs = append(attrs, k+"="+quote(params[k]))
		}
	}
	return attrs, queries
}

// quote wraps v in double quotes, escaping what the console would interpret.
func quote(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, `?`, `\?`)
	return `"` + r.Replace(v) + `"`
}

// checkOutput returns a command failure when the console rejected the line.
func checkOutput(command, output string) error {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if consoleFailure.MatchString(line) {
			return types.CommandError(command, line, nil)
		}
		return nil
	}
	return nil
}

// parseOutput turns console output into records according to the command verb.
func parseOutput(command, output string) []types.Record {
	output = common.ConsoleText(output)
	idx := strings.LastIndex(command, "/")
	path, verb := command[:idx], command[idx+1:]

	switch {
	case verb == "print" && singleItem[path]:
		return []types.Record{parseGet(output)}
	case verb == "print":
		return parseTerse(output)
	case verb == "add":
		if id := strings.TrimSpace(output); id != "" {
			return []types.Record{{"ret": id}}
		}
	}
	return nil
}

// parseGet decodes ":put [... get]" output of the form "k1=v1;k2=v2".
func parseGet(output string) types.Record {
	rec := types.Record{}
	for _, pair := range strings.Split(strings.TrimSpace(output), ";") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		rec[strings.TrimSpace(k)] = v
	}
	return rec
}

// terseFlags maps print flag letters to the attribute they stand for.
var terseFlags = map[rune]string{
	'X': "disabled",
	'D': "dynamic",
	'R': "running",
	'I': "invalid",
}

// itemNumber is the leading column of a terse row: a console item number,
// or the internal id when show-ids is honored.
var itemNumber = regexp.MustCompile(`^(\d+|\*[0-9A-Fa-f]+)$`)

// parseTerse decodes "print terse" rows: an item number, optional flag
// letters, then key=value pairs with quoted values where needed.
func parseTerse(output string) []types.Record {
	var records []types.Record
	for _, line := range strings.Split(output, "\n") {
		fields := splitTerse(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}

		number := fields[0]
		if !itemNumber.MatchString(number) {
			continue
		}

		rec := types.Record{}
		rest := fields[1:]
		if len(rest) > 0 && !strings.Contains(rest[0], "=") {
			for _, flag := range rest[0] {
				if attr, ok := terseFlags[flag]; ok {
					rec[attr] = "true"
				}
			}
			rest = rest[1:]
		}
		for _, field := range rest {
			k, v, ok := strings.Cut(field, "=")
			if !ok {
				continue
			}
			rec[k] = v
		}
		if _, ok := rec[".id"]; !ok {
			rec[".id"] = number
		}
		records = append(records, rec)
	}
	return records
}

// splitTerse splits a terse row on spaces outside double quotes and unquotes values.
func splitTerse(line string) []string {
	var (
		fields  []string
		b       strings.Builder
		quoted  bool
		escaped bool
		started bool
	)
	flush := func() {
		if started {
			fields = append(fields, b.String())
		}
		b.Reset()
		started = false
	}

	for _, r := range line {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '"':
			quoted = !quoted
			started = true
		case r == ' ' && !quoted:
			flush()
		default:
			b.WriteRune(r)
			started = true
		}
	}
	flush()
	return fields
}
