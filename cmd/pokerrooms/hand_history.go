package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/pokerrooms/internal/phh"
)

var (
	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	loseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	dealerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

// HandHistoryCmd is the root command for PHH utilities.
type HandHistoryCmd struct {
	Show HandHistoryShowCmd `cmd:"show" help:"Print recorded hands from a PHH file or directory"`
}

// HandHistoryShowCmd prints hands written by the recorder.
type HandHistoryShowCmd struct {
	Path  string `arg:"" name:"path" type:"path" help:"PHH file, or a directory searched for .phh files"`
	Limit int    `help:"Maximum number of hands to print (0 = all)"`
}

func (cmd HandHistoryShowCmd) Run() error {
	files, err := findHandFiles(cmd.Path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no hands found in %s", cmd.Path)
	}
	if cmd.Limit > 0 && cmd.Limit < len(files) {
		files = files[:cmd.Limit]
	}

	for _, file := range files {
		hand, err := loadHand(file)
		if err != nil {
			return err
		}
		renderHand(os.Stdout, hand)
	}
	return nil
}

// findHandFiles returns path itself or every .phh file below it. Hand ids
// sort by creation time, so name order is play order within a room.
func findHandFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".phh" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func loadHand(path string) (*phh.HandHistory, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hand, err := phh.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(hand.Players) == 0 {
		return nil, fmt.Errorf("%s: %w", path, errors.New("hand has no players"))
	}
	return hand, nil
}

func renderHand(w io.Writer, hand *phh.HandHistory) {
	title := fmt.Sprintf("Hand %s", hand.HandID)
	if hand.Table != "" {
		title += " @ " + hand.Table
	}
	fmt.Fprintln(w, handStyle.Render(title))

	if hand.Year != 0 {
		fmt.Fprintf(w, "  %04d-%02d-%02d %s %s\n", hand.Year, hand.Month, hand.Day, hand.Time, hand.TimeZone)
	}
	if len(hand.BlindsOrStraddles) >= 2 {
		fmt.Fprintf(w, "  Blinds %d/%d\n", hand.BlindsOrStraddles[0], hand.BlindsOrStraddles[1])
	}

	for i, name := range hand.Players {
		label := fmt.Sprintf("p%d %-16s", i+1, name)
		if i == len(hand.Players)-1 {
			label = dealerStyle.Render(label)
		}
		start := at(hand.StartingStacks, i)
		finish := at(hand.FinishingStacks, i)
		delta := finish - start

		result := fmt.Sprintf("%+d", delta)
		switch {
		case delta > 0:
			result = winStyle.Render(result)
		case delta < 0:
			result = loseStyle.Render(result)
		}
		fmt.Fprintf(w, "  %s %6d -> %6d  %s\n", label, start, finish, result)
	}

	fmt.Fprintln(w, "  Actions:")
	for _, action := range hand.Actions {
		fmt.Fprintf(w, "    %s\n", describeAction(action, hand.Players))
	}
	fmt.Fprintln(w)
}

// describeAction expands a PHH action line with the player's name.
func describeAction(action string, players []string) string {
	fields := strings.Fields(action)
	if len(fields) < 2 {
		return action
	}

	var idx int
	switch {
	case fields[0] == "d" && len(fields) >= 3 && fields[1] == "dh":
		if _, err := fmt.Sscanf(fields[2], "p%d", &idx); err != nil {
			return action
		}
	case fields[0] == "d":
		return action
	default:
		if _, err := fmt.Sscanf(fields[0], "p%d", &idx); err != nil {
			return action
		}
	}
	if idx < 1 || idx > len(players) {
		return action
	}
	return fmt.Sprintf("%-24s (%s)", action, players[idx-1])
}

func at(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}
