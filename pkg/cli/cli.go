package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

const indentUnit = "    "

type Value interface {
	String() string
	Set(string) error
	Get() any
}

type stringValue struct{ p *string }

func (v *stringValue) Set(s string) error { *v.p = s; return nil }
func (v *stringValue) String() string     { return *v.p }
func (v *stringValue) Get() any           { return *v.p }

type boolValue struct{ p *bool }

// Set treats a bare flag (empty value) as true.
func (v *boolValue) Set(s string) error {
	if s == "" {
		*v.p = true
		return nil
	}
	val, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid boolean value '%s': %w", s, err)
	}
	*v.p = val
	return nil
}
func (v *boolValue) String() string { return strconv.FormatBool(*v.p) }
func (v *boolValue) Get() any       { return *v.p }

type intValue struct{ p *int }

func (v *intValue) Set(s string) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer value '%s': %w", s, err)
	}
	*v.p = val
	return nil
}
func (v *intValue) String() string { return strconv.Itoa(*v.p) }
func (v *intValue) Get() any       { return *v.p }

type listValue struct{ p *[]string }

func (v *listValue) Set(s string) error { *v.p = append(*v.p, s); return nil }
func (v *listValue) String() string     { return strings.Join(*v.p, ", ") }
func (v *listValue) Get() any           { return *v.p }

type Flag struct {
	Name         string
	Shorthand    string
	Usage        string
	Value        Value
	DefValue     string
	ExpectedType string
}

type FlagGroup struct {
	Name                 string
	Description          string
	Flags                []FlagGroupEntry
	GroupType            string
	AvailableFlagsHeader string
}

// FlagGroupEntry describes a -<prefix><name> / -<prefix>no-<name> pair.
// Default is the state the entry has when neither flag is given.
type FlagGroupEntry struct {
	Name     string
	Prefix   string
	Usage    string
	Enabled  *bool
	Disabled *bool
	Default  bool
}

type FlagSet struct {
	name       string
	flags      map[string]*Flag
	shorthands map[string]*Flag
	args       []string
	flagGroups []FlagGroup
}

func NewFlagSet(name string) *FlagSet {
	return &FlagSet{
		name:       name,
		flags:      make(map[string]*Flag),
		shorthands: make(map[string]*Flag),
	}
}

func (f *FlagSet) Args() []string { return f.args }

func (f *FlagSet) Lookup(name string) *Flag { return f.flags[name] }

func (f *FlagSet) String(p *string, name, shorthand, value, usage, expectedType string) {
	*p = value
	f.Var(&stringValue{p}, name, shorthand, usage, value, expectedType)
}

func (f *FlagSet) Bool(p *bool, name, shorthand string, value bool, usage string) {
	*p = value
	f.Var(&boolValue{p}, name, shorthand, usage, strconv.FormatBool(value), "")
}

func (f *FlagSet) Int(p *int, name, shorthand string, value int, usage, expectedType string) {
	*p = value
	f.Var(&intValue{p}, name, shorthand, usage, strconv.Itoa(value), expectedType)
}

func (f *FlagSet) List(p *[]string, name, shorthand string, value []string, usage, expectedType string) {
	*p = value
	f.Var(&listValue{p}, name, shorthand, usage, "", expectedType)
}

func (f *FlagSet) AddFlagGroup(name, description, groupType, availableFlagsHeader string, entries []FlagGroupEntry) {
	for i := range entries {
		e := &entries[i]
		if e.Enabled != nil {
			f.Bool(e.Enabled, e.Prefix+e.Name, "", *e.Enabled, e.Usage)
		}
		if e.Disabled != nil {
			f.Bool(e.Disabled, e.Prefix+"no-"+e.Name, "", *e.Disabled, "Disable '"+e.Name+"'")
		}
	}
	f.flagGroups = append(f.flagGroups, FlagGroup{
		Name:                 name,
		Description:          description,
		Flags:                entries,
		GroupType:            groupType,
		AvailableFlagsHeader: availableFlagsHeader,
	})
}

func (f *FlagSet) Var(value Value, name, shorthand, usage, defValue, expectedType string) {
	if name == "" {
		panic("flag name cannot be empty")
	}
	if _, ok := f.flags[name]; ok {
		panic(fmt.Sprintf("flag redefined: %s", name))
	}
	flag := &Flag{Name: name, Shorthand: shorthand, Usage: usage, Value: value, DefValue: defValue, ExpectedType: expectedType}
	f.flags[name] = flag
	if shorthand != "" {
		if _, ok := f.shorthands[shorthand]; ok {
			panic(fmt.Sprintf("shorthand flag redefined: %s", shorthand))
		}
		f.shorthands[shorthand] = flag
	}
}

// Parse accepts --name, --name=value, -name (long names with a single dash,
// as in -Fcolor), -x value and -xvalue. Everything else is an argument.
func (f *FlagSet) Parse(arguments []string) error {
	f.args = []string{}
	for i := 0; i < len(arguments); i++ {
		arg := arguments[i]
		switch {
		case arg == "--":
			f.args = append(f.args, arguments[i+1:]...)
			return nil
		case len(arg) < 2 || arg[0] != '-':
			f.args = append(f.args, arg)
		case strings.HasPrefix(arg, "--"):
			if err := f.parseNamed(arg[2:], "--", arguments, &i); err != nil {
				return err
			}
		default:
			name, _, _ := strings.Cut(arg[1:], "=")
			if _, ok := f.flags[name]; ok {
				if err := f.parseNamed(arg[1:], "-", arguments, &i); err != nil {
					return err
				}
				continue
			}
			if err := f.parseShortFlag(arg, arguments, &i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *FlagSet) parseNamed(body, dashes string, arguments []string, i *int) error {
	name, value, hasValue := strings.Cut(body, "=")
	if name == "" {
		return fmt.Errorf("empty flag name")
	}
	flag, ok := f.flags[name]
	if !ok {
		return fmt.Errorf("unknown flag: %s%s", dashes, name)
	}
	if hasValue {
		return flag.Value.Set(value)
	}
	if _, isBool := flag.Value.(*boolValue); isBool {
		return flag.Value.Set("")
	}
	if *i+1 >= len(arguments) {
		return fmt.Errorf("flag needs an argument: %s%s", dashes, name)
	}
	*i++
	return flag.Value.Set(arguments[*i])
}

func (f *FlagSet) parseShortFlag(arg string, arguments []string, i *int) error {
	shorthand := arg[1:2]
	flag, ok := f.shorthands[shorthand]
	if !ok {
		return fmt.Errorf("unknown flag: %s", arg)
	}
	if _, isBool := flag.Value.(*boolValue); isBool {
		return flag.Value.Set("")
	}
	value := strings.TrimPrefix(arg[2:], "=")
	if value == "" {
		if *i+1 >= len(arguments) {
			return fmt.Errorf("flag needs an argument: -%s", shorthand)
		}
		*i++
		value = arguments[*i]
	}
	return flag.Value.Set(value)
}

type App struct {
	Name        string
	Synopsis    string
	Description string
	Authors     []string
	Repository  string
	FlagSet     *FlagSet
	Action      func(args []string) error
	Stdout      io.Writer
	Stderr      io.Writer
}

func NewApp(name string) *App {
	return &App{
		Name:    name,
		FlagSet: NewFlagSet(name),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

func (a *App) Run(arguments []string) error {
	help := false
	a.FlagSet.Bool(&help, "help", "h", false, "Display this information")

	if err := a.FlagSet.Parse(arguments); err != nil {
		fmt.Fprintf(a.Stderr, "%s: %v\n", a.Name, err)
		a.writeUsage(a.Stderr)
		return err
	}
	if help {
		a.writeHelp(a.Stdout)
		return nil
	}
	if a.Action != nil {
		return a.Action(a.FlagSet.Args())
	}
	return nil
}

func (a *App) writeUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s %s\n", a.Name, a.Synopsis)
	fmt.Fprintf(w, "Run '%s --help' for all available options and flags.\n", a.Name)
}

func (a *App) writeHelp(w io.Writer) {
	var sb strings.Builder
	width := terminalWidth()

	if len(a.Authors) > 0 {
		fmt.Fprintf(&sb, "\n%sCopyright (c) %d: %s and contributors\n", indentUnit, time.Now().Year(), strings.Join(a.Authors, ", "))
	}
	if a.Repository != "" {
		fmt.Fprintf(&sb, "%sFor more details refer to %s\n", indentUnit, a.Repository)
	}
	if a.Synopsis != "" {
		fmt.Fprintf(&sb, "\n%sSynopsis\n%s%s %s\n", indentUnit, indentUnit+indentUnit, a.Name, a.Synopsis)
	}
	if a.Description != "" {
		fmt.Fprintf(&sb, "\n%sDescription\n", indentUnit)
		for _, line := range wrapText(a.Description, width-2*len(indentUnit)) {
			fmt.Fprintf(&sb, "%s%s\n", indentUnit+indentUnit, line)
		}
	}

	options := a.optionFlags()
	leftWidth := 0
	for _, flag := range options {
		leftWidth = max(leftWidth, len(formatFlag(flag)))
	}
	for _, group := range a.FlagSet.flagGroups {
		leftWidth = max(leftWidth, len(fmt.Sprintf("-%sno-<%s>", group.Flags[0].Prefix, group.GroupType)))
		for _, entry := range group.Flags {
			leftWidth = max(leftWidth, len(entry.Name))
		}
	}

	if len(options) > 0 {
		fmt.Fprintf(&sb, "\n%sOptions\n", indentUnit)
		for _, flag := range options {
			right := ""
			if _, isBool := flag.Value.(*boolValue); !isBool && flag.DefValue != "" {
				right = "|" + flag.DefValue + "|"
			}
			writeEntry(&sb, width, leftWidth, formatFlag(flag), flag.Usage, right)
		}
	}

	for _, group := range a.FlagSet.flagGroups {
		prefix := group.Flags[0].Prefix
		fmt.Fprintf(&sb, "\n%s%s\n", indentUnit, group.Name)
		writeEntry(&sb, width, leftWidth, fmt.Sprintf("-%s<%s>", prefix, group.GroupType), "Enable a specific "+group.GroupType, "")
		writeEntry(&sb, width, leftWidth, fmt.Sprintf("-%sno-<%s>", prefix, group.GroupType), "Disable a specific "+group.GroupType, "")
		if group.AvailableFlagsHeader != "" {
			fmt.Fprintf(&sb, "%s%s\n", indentUnit, group.AvailableFlagsHeader)
		}
		entries := make([]FlagGroupEntry, len(group.Flags))
		copy(entries, group.Flags)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
		for _, entry := range entries {
			state := "|-|"
			if entry.Default {
				state = "|x|"
			}
			writeEntry(&sb, width, leftWidth, entry.Name, entry.Usage, state)
		}
	}
	fmt.Fprint(w, sb.String())
}

func (a *App) optionFlags() []*Flag {
	grouped := make(map[string]bool)
	for _, group := range a.FlagSet.flagGroups {
		for _, entry := range group.Flags {
			grouped[entry.Prefix+entry.Name] = true
			grouped[entry.Prefix+"no-"+entry.Name] = true
		}
	}
	var options []*Flag
	for _, flag := range a.FlagSet.flags {
		if !grouped[flag.Name] {
			options = append(options, flag)
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Name < options[j].Name })
	return options
}

func formatFlag(flag *Flag) string {
	var sb strings.Builder
	_, isBool := flag.Value.(*boolValue)
	if flag.Shorthand != "" {
		fmt.Fprintf(&sb, "-%s, ", flag.Shorthand)
	}
	fmt.Fprintf(&sb, "--%s", flag.Name)
	if !isBool && flag.ExpectedType != "" {
		fmt.Fprintf(&sb, " <%s>", flag.ExpectedType)
	}
	return sb.String()
}

func writeEntry(sb *strings.Builder, termWidth, leftWidth int, left, usage, right string) {
	indent := indentUnit + indentUnit
	usageWidth := max(termWidth-len(indent)-leftWidth-len(right)-3, 10)
	lines := wrapText(usage, usageWidth)
	if len(lines) == 0 {
		lines = []string{""}
	}
	if right != "" {
		fmt.Fprintf(sb, "%s%-*s %-*s  %s\n", indent, leftWidth, left, usageWidth, lines[0], right)
	} else {
		fmt.Fprintf(sb, "%s%-*s %s\n", indent, leftWidth, left, lines[0])
	}
	pad := strings.Repeat(" ", leftWidth+1)
	for _, line := range lines[1:] {
		fmt.Fprintf(sb, "%s%s%s\n", indent, pad, line)
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return max(width, 20)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

func wrapText(text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+len(word)+1 > maxWidth {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
