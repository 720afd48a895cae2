package cmds

import "fmt"

// MCFunctionFile is one `.mcfunction` file: an ordered command list plus an
// optional stable output path (spec.md §3.7). Files without an explicit
// path are auto-numbered library files ("lib/acalib<N>"); interface files
// get a user-named "interface/<path>".
type MCFunctionFile struct {
	Path     string // empty until assigned
	Commands []Command
	dead     bool // set by the optimizer; a dead file is skipped at emit time

	// inliningFriendly marks a file whose call sites the function inliner
	// (spec.md §4.6) may fold a single-use callee into even across a
	// surrounding predicative `execute`. Library files the generator emits
	// for `if`/`elif`/`while` arms are friendly by default, since they
	// exist purely to be folded back; a real function body opts in
	// explicitly via SetInliningFriendly.
	inliningFriendly bool
}

// HasContent reports whether this file contains at least one non-comment
// command.
func (f *MCFunctionFile) HasContent() bool {
	return f.CmdLength() > 0
}

// CmdLength counts the non-comment commands in this file.
func (f *MCFunctionFile) CmdLength() int {
	n := 0
	for _, c := range f.Commands {
		if _, isComment := c.(*Comment); !isComment {
			n++
		}
	}
	return n
}

// Dead reports whether the optimizer has marked this file for removal.
func (f *MCFunctionFile) Dead() bool { return f.dead }

// MarkDead flags this file as removed by the optimizer; InvokeFunction/
// ScheduleFunction sites referencing it are rewritten separately.
func (f *MCFunctionFile) MarkDead() { f.dead = true }

// InliningFriendly reports whether the function inliner may fold a
// single-use callee into a call site inside this file across a
// surrounding predicative `execute` (spec.md §4.6 precondition (a)).
func (f *MCFunctionFile) InliningFriendly() bool { return f.inliningFriendly }

// SetInliningFriendly opts this file in or out of that treatment.
func (f *MCFunctionFile) SetInliningFriendly(v bool) { f.inliningFriendly = v }

// FunctionsManager is the project-level registry of function files,
// scoreboard objectives, integer-constant slots, and allocation counters
// (spec.md §3.7). It is the sole owner of the emission-level shared
// resources (spec.md §5); only the generator mutates it, and only while
// walking one module at a time.
type FunctionsManager struct {
	Objective string // the default dummy objective, "acacia" unless configured otherwise

	files   []*MCFunctionFile
	extraObjectives []string

	intConsts map[int32]ScbSlot // add_int_const memoization

	nextTmp      int
	nextEntTag   int
	nextEntName  int
	nextLibFile  int
	nextObjID    int

	FileInit FileID
	FileMain FileID
	FileTick FileID
	hasTick  bool
}

// NewFunctionsManager constructs a manager with the given default
// objective name (spec.md §6.4's default is "acacia"), pre-registering the
// always-present init and load files and the lazily-materialized tick
// file, and seeding init with the scoreboard-objective registration every
// project needs (spec.md §6.2's "load.mcfunction" holds the top-level
// module's own statements; "init.mcfunction" holds the one-time setup a
// project never writes itself).
func NewFunctionsManager(objective string) *FunctionsManager {
	m := &FunctionsManager{Objective: objective, intConsts: map[int32]ScbSlot{}}
	m.FileInit = m.NewFile("init")
	m.FileMain = m.NewFile("load")
	m.FileTick = m.NewFile("tick")
	m.files[m.FileInit].Commands = append(m.files[m.FileInit].Commands,
		&ScbObjective{Action: ObjAdd, Objective: m.Objective, Criterion: "dummy"})
	return m
}

// NewFile allocates a fresh function file with the given path (may be
// empty; library files get an auto-numbered path via NewLibFile instead).
func (m *FunctionsManager) NewFile(path string) FileID {
	m.files = append(m.files, &MCFunctionFile{Path: path})
	return FileID(len(m.files) - 1)
}

// NewLibFile allocates a function file under "lib/acalib<N>.mcfunction".
func (m *FunctionsManager) NewLibFile() FileID {
	id := m.NewFile(fmt.Sprintf("lib/acalib%d", m.nextLibFile))
	m.nextLibFile++
	m.files[id].inliningFriendly = true
	return id
}

// NewInterfaceFile allocates a function file under "interface/<path>".
func (m *FunctionsManager) NewInterfaceFile(path string) FileID {
	return m.NewFile("interface/" + path)
}

// File returns the file for a given id.
func (m *FunctionsManager) File(id FileID) *MCFunctionFile { return m.files[id] }

// PathOf returns the final mcfunction invocation path (without extension)
// for a file id.
func (m *FunctionsManager) PathOf(id FileID) string { return m.files[id].Path }

// Files returns every allocated file, in allocation order; used by the
// optimizer and the emitter.
func (m *FunctionsManager) Files() []*MCFunctionFile { return m.files }

// NoteTickUsed marks that the tick hook has content, so the emitter writes
// `tick.json` (spec.md §6.2).
func (m *FunctionsManager) NoteTickUsed() { m.hasTick = true }

// HasTick reports whether the tick hook should be emitted.
func (m *FunctionsManager) HasTick() bool {
	return m.hasTick || m.files[m.FileTick].HasContent()
}

// Allocate returns a fresh scoreboard slot on the default objective.
func (m *FunctionsManager) Allocate() ScbSlot {
	m.nextTmp++
	return ScbSlot{Target: fmt.Sprintf("acacia%d", m.nextTmp), Objective: m.Objective}
}

// AllocateExtraObjective mints a fresh "acaciaN" (N>=1) objective, used for
// struct-as-entity-field storage (spec.md §6.4).
func (m *FunctionsManager) AllocateExtraObjective() string {
	m.nextObjID++
	obj := fmt.Sprintf("acacia%d", m.nextObjID)
	m.extraObjectives = append(m.extraObjectives, obj)
	return obj
}

// AllocateEntityTag mints a fresh "acacia_tag_N" identifier for an entity
// or entity group (spec.md §6.4).
func (m *FunctionsManager) AllocateEntityTag() string {
	m.nextEntTag++
	return fmt.Sprintf("acacia_tag_%d", m.nextEntTag)
}

// AllocateEntityName mints a fresh anonymous identity tag distinguishing
// one summoned entity from its siblings.
func (m *FunctionsManager) AllocateEntityName() string {
	m.nextEntName++
	return fmt.Sprintf("acacia_ent_%d", m.nextEntName)
}

// AddIntConst returns the slot holding the given int32 constant,
// allocating and initializing it on first use (spec.md §4.5).
func (m *FunctionsManager) AddIntConst(n int32) ScbSlot {
	if slot, ok := m.intConsts[n]; ok {
		return slot
	}
	slot := m.Allocate()
	m.intConsts[n] = slot
	m.files[m.FileInit].Commands = append(m.files[m.FileInit].Commands, &ScbSetConst{Slot: slot, Value: n})
	return slot
}

// TmpPool is a statement-scoped free list of temporary slots (spec.md
// §4.5, §5): slots taken via Take during one statement are returned to this
// pool's own free list when the statement ends, regardless of how it
// exits (including diagnostic abort), via ReleaseAll.
type TmpPool struct {
	m    *FunctionsManager
	free []ScbSlot
	used []ScbSlot
}

// NewTmpPool constructs a pool bound to m.
func NewTmpPool(m *FunctionsManager) *TmpPool { return &TmpPool{m: m} }

// Take returns a temporary slot, reusing one from the free list if
// available.
func (p *TmpPool) Take() ScbSlot {
	if n := len(p.free); n > 0 {
		s := p.free[n-1]
		p.free = p.free[:n-1]
		p.used = append(p.used, s)
		return s
	}
	s := p.m.Allocate()
	p.used = append(p.used, s)
	return s
}

// ReleaseAll returns every slot taken from this pool back to the free
// list, called at each statement boundary.
func (p *TmpPool) ReleaseAll() {
	p.free = append(p.free, p.used...)
	p.used = p.used[:0]
}
