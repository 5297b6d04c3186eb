package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"

	"github.com/Hakuto4838/OrderedDict.git/bench"
	"github.com/Hakuto4838/OrderedDict.git/dict"
	"github.com/Hakuto4838/OrderedDict.git/dict/avl"
)

type styles struct {
	Title   lipgloss.Style
	Prompt  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		Title: r.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),
		Prompt: r.NewStyle().
			Foreground(lipgloss.Color("205")),
		Success: r.NewStyle().
			Foreground(lipgloss.Color("46")),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}

var errExit = errors.New("exit")

type menuItem struct {
	label  string
	action func(s *session, args []string) error
}

type session struct {
	in     *bufio.Scanner
	out    io.Writer
	style  styles
	seed   int64
	d      dict.Dictionary
	noun   string
	menu   []menuItem
	parser *shellwords.Parser
}

func newSession(in io.Reader, out io.Writer, seed int64) *session {
	return &session{
		in:     bufio.NewScanner(in),
		out:    out,
		style:  newStyles(out),
		seed:   seed,
		parser: shellwords.NewParser(),
	}
}

func (s *session) println(a ...interface{}) {
	fmt.Fprintln(s.out, a...)
}

func (s *session) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *session) success(format string, a ...interface{}) {
	s.println(s.style.Success.Render(fmt.Sprintf(format, a...)))
}

func (s *session) fail(format string, a ...interface{}) {
	s.println(s.style.Error.Render(fmt.Sprintf(format, a...)))
}

// readLine 讀一行並切成 token；輸入結束時回傳 io.EOF
func (s *session) readLine() ([]string, error) {
	s.printf("%s", s.style.Prompt.Render(">> "))
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	args, err := s.parser.Parse(s.in.Text())
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", s.in.Text())
	}
	return args, nil
}

func (s *session) Run() error {
	s.println(s.style.Title.Render("Welcome, user!"))
	s.println("Which data structure do you want to use?\n" +
		"(a) AVL Tree; (b) Skip List; (c) Basic Skip List")
	args, err := s.readLine()
	if err != nil {
		return ignoreEOF(err)
	}
	if len(args) == 0 || !s.choose(args[0]) {
		s.fail("Invalid input!")
		return nil
	}
	s.success("I have created an empty %s for you.", s.noun)

	for {
		s.showMenu()
		args, err := s.readLine()
		if err != nil {
			return ignoreEOF(err)
		}
		if len(args) == 0 {
			continue
		}
		err = s.dispatch(args[0], args[1:])
		switch {
		case errors.Is(err, errExit):
			return nil
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *session) choose(option string) bool {
	common := []menuItem{
		{"Insert an element", (*session).insert},
		{"Find an element", (*session).find},
		{"Find the closest key after", (*session).closest},
		{"Remove an element", (*session).remove},
	}
	var impl string
	switch option {
	case "a":
		impl, s.noun = bench.ImplAVL, "AVL tree"
		s.menu = append(common,
			menuItem{"Print the AVL tree", (*session).print},
			menuItem{"Print the AVL tree (Preorder)", traversal((*avl.Tree).PreOrder)},
			menuItem{"Print the AVL tree (Inorder)", traversal((*avl.Tree).InOrder)},
			menuItem{"Print the AVL tree (Postorder)", traversal((*avl.Tree).PostOrder)},
		)
	case "b":
		impl, s.noun = bench.ImplSkip, "skip list"
		s.menu = append(common, menuItem{"Print the Skip list", (*session).print})
	case "c":
		impl, s.noun = bench.ImplBasic, "basic skip list"
		s.menu = append(common, menuItem{"Print the Skip list", (*session).print})
	default:
		return false
	}
	s.menu = append(s.menu, menuItem{"Exit", func(*session, []string) error { return errExit }})

	d, err := bench.NewImpl(impl, s.seed)
	if err != nil {
		return false
	}
	s.d = d
	return true
}

func (s *session) showMenu() {
	var sb strings.Builder
	sb.WriteString("\nWhat do you want?\n")
	for i, item := range s.menu {
		fmt.Fprintf(&sb, "(%c) %s\n", 'a'+i, item.label)
	}
	s.printf("%s", sb.String())
}

func (s *session) dispatch(option string, args []string) error {
	if len(option) != 1 || option[0] < 'a' || int(option[0]-'a') >= len(s.menu) {
		s.fail("Invalid input!")
		return nil
	}
	return s.menu[option[0]-'a'].action(s, args)
}

// keyArgs 若選項後面沒有帶參數，則提示使用者輸入
func (s *session) keyArgs(op string, args []string) (dict.K, []string, bool, error) {
	if len(args) == 0 {
		s.printf("%s operation: please input the key:\n", op)
		var err error
		if args, err = s.readLine(); err != nil {
			return 0, nil, false, err
		}
	}
	if len(args) == 0 {
		s.fail("Invalid key!")
		return 0, nil, false, nil
	}
	key, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		s.fail("Invalid key %q!", args[0])
		return 0, nil, false, nil
	}
	return key, args[1:], true, nil
}

func (s *session) insert(args []string) error {
	key, rest, ok, err := s.keyArgs("InsertElement", args)
	if !ok {
		return err
	}
	value := strings.Join(rest, " ")
	_, err = s.d.Insert(key, value)
	switch {
	case errors.Is(err, dict.ErrDuplicateKey):
		s.fail("Element %d already exists!", key)
	case errors.Is(err, dict.ErrReservedKey):
		s.fail("Key %d is reserved!", key)
	case err != nil:
		return err
	default:
		s.success("Element %d inserted successfully!", key)
	}
	return nil
}

func (s *session) find(args []string) error {
	key, _, ok, err := s.keyArgs("FindElement", args)
	if !ok {
		return err
	}
	nd := s.d.Find(key)
	if nd == nil {
		s.fail("The element does not exist!")
		return nil
	}
	if v := nd.GetValue(); v != "" {
		s.success("We find the element! value: %s", v)
	} else {
		s.success("We find the element!")
	}
	return nil
}

func (s *session) closest(args []string) error {
	key, _, ok, err := s.keyArgs("ClosestKeyAfter", args)
	if !ok {
		return err
	}
	if succ, found := s.d.ClosestKeyAfter(key); found {
		s.success("The closest key after the element is %d", succ)
	} else {
		s.fail("The closest key after the element does not exist!")
	}
	return nil
}

func (s *session) remove(args []string) error {
	key, _, ok, err := s.keyArgs("RemoveElement", args)
	if !ok {
		return err
	}
	if e, removed := s.d.Remove(key); removed {
		s.success("Element %d remove successfully!", e.Key)
	} else {
		s.fail("Element do not exist!")
	}
	return nil
}

func (s *session) print(_ []string) error {
	switch d := s.d.(type) {
	case fmt.Stringer:
		s.println(strings.TrimRight(d.String(), "\n"))
	case dict.Leveled:
		s.println(strings.TrimRight(levelsString(d), "\n"))
	}
	return nil
}

// levelsString 與 skip list 的 String 相同格式
func levelsString(sl dict.Leveled) string {
	levels := sl.Levels()
	if len(levels) == 0 || len(levels[len(levels)-1]) == 0 {
		return "The skip list is empty.\n"
	}
	var sb strings.Builder
	for i, keys := range levels {
		fmt.Fprintf(&sb, "Level %d: start-", len(levels)-i)
		for _, k := range keys {
			fmt.Fprintf(&sb, "%d-", k)
		}
		sb.WriteString("end\n")
	}
	return sb.String()
}

func traversal(order func(*avl.Tree) []dict.K) func(*session, []string) error {
	return func(s *session, _ []string) error {
		tree := s.d.(*avl.Tree)
		if tree.Size() == 0 {
			s.println("The AVL tree is empty.")
			return nil
		}
		keys := order(tree)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.FormatInt(k, 10)
		}
		s.println(strings.Join(parts, " "))
		return nil
	}
}
