// This file is part of reltools.
//
// reltools is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// reltools is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with reltools.  If not, see <https://www.gnu.org/licenses/>.

package rel

import (
	"fmt"
	"slices"
	"sort"
)

// Command is a single relocation. It patches the word it is attached to with
// the address of the target.
type Command struct {
	Type Type

	// the module that contains the target. the main executable is module zero
	Module uint32

	// section and offset of the target. for module zero the Addend is an
	// absolute address and the section is not meaningful
	Section int
	Addend  uint32
}

func (c Command) String() string {
	return fmt.Sprintf("%s module %d section %d addend %#08x", c.Type, c.Module, c.Section, c.Addend)
}

// Reference is a word somewhere in the module that refers to another word.
type Reference struct {
	Section int
	Index   int
}

// Manager holds the relocation commands of a single section. Commands are
// keyed by word index, not by byte offset.
type Manager struct {
	commands map[int]Command

	// incoming references to a word. populated by Module.Link()
	linked map[int][]Reference

	// indices of branch instructions in the same section that target a word.
	// populated by Module.Link()
	branched map[int][]int
}

// NewManager is the preferred method of initialisation for the Manager type.
func NewManager() *Manager {
	return &Manager{
		commands: make(map[int]Command),
		linked:   make(map[int][]Reference),
		branched: make(map[int][]int),
	}
}

// SetCommand installs the command at the word index. Any existing command at
// that index is replaced.
func (m *Manager) SetCommand(index int, cmd Command) {
	m.commands[index] = cmd
}

// RemoveCommand removes the command at the word index.
func (m *Manager) RemoveCommand(index int) {
	delete(m.commands, index)
}

// Command returns the command at the word index.
func (m *Manager) Command(index int) (Command, bool) {
	cmd, ok := m.commands[index]
	return cmd, ok
}

// Indices returns the word indices that have a command, in ascending order.
func (m *Manager) Indices() []int {
	idx := make([]int, 0, len(m.commands))
	for i := range m.commands {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Len returns the number of commands in the section.
func (m *Manager) Len() int {
	return len(m.commands)
}

// Linked returns the commands anywhere in the module that target the word
// index.
func (m *Manager) Linked(index int) []Reference {
	return m.linked[index]
}

// Branched returns the branch instructions in the section that target the
// word index.
func (m *Manager) Branched(index int) []int {
	return m.branched[index]
}

// IsReferenced returns true if the word is the target of a relocation or a
// branch.
func (m *Manager) IsReferenced(index int) bool {
	return len(m.linked[index]) > 0 || len(m.branched[index]) > 0
}

func (m *Manager) clearLinks() {
	clear(m.linked)
	clear(m.branched)
}

func (m *Manager) addLink(index int, ref Reference) {
	if !slices.Contains(m.linked[index], ref) {
		m.linked[index] = append(m.linked[index], ref)
	}
}

func (m *Manager) addBranch(index int, from int) {
	if !slices.Contains(m.branched[index], from) {
		m.branched[index] = append(m.branched[index], from)
	}
}
