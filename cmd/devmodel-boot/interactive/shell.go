// Package interactive provides the interactive command-line interface
// for devmodel-boot.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/devmodel/devmodel-go/pkg/initcall"
	"github.com/devmodel/devmodel-go/pkg/irq"
	"github.com/devmodel/devmodel-go/pkg/of"
	"github.com/devmodel/devmodel-go/pkg/phy"
	"github.com/devmodel/devmodel-go/pkg/platform"
)

// Env is the booted system the shell operates on.
type Env struct {
	Platform  *platform.Bus
	PHY       *phy.Bus
	MDIO      *phy.SimBus
	IRQ       *irq.Domain
	Initcalls *initcall.Table
	Sequencer *initcall.Sequencer
	Tree      *of.Tree
}

// Shell handles interactive mode for devmodel-boot.
type Shell struct {
	env Env
	out io.Writer
	rl  *readline.Instance
}

// New creates a shell reading from the terminal.
func New(env Env) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "devmodel> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{env: env, out: rl.Stdout(), rl: rl}, nil
}

func newShell(env Env, out io.Writer) *Shell {
	return &Shell{env: env, out: out}
}

// Stdout returns a writer that coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Stderr returns a writer that coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	if s.rl == nil {
		return s.out
	}
	return s.rl.Stderr()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Exec(line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Exec runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "devices", "d":
		s.cmdDevices()
	case "drivers":
		s.cmdDrivers()
	case "bind":
		s.cmdBind(args)
	case "unbind":
		s.cmdUnbind(args)
	case "suspend":
		s.cmdSuspend(args, true)
	case "resume":
		s.cmdSuspend(args, false)
	case "irq":
		s.cmdIRQ(args)
	case "irqs":
		s.cmdIRQs()
	case "link":
		s.cmdLink(args)
	case "phys":
		s.cmdPHYs()
	case "initcalls":
		s.cmdInitcalls()
	case "tree":
		s.cmdTree()
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Driver Model Commands:
  Buses:
    devices              - List devices and their bound drivers
    drivers              - List registered drivers and capabilities
    bind <device>        - Match an unbound device against the drivers
    unbind <device>      - Detach a device from its driver
    suspend <device>     - Suspend a bound device
    resume <device>      - Resume a suspended device

  Interrupts:
    irqs                 - List active interrupt lines
    irq <line>           - Raise an interrupt line

  PHYs:
    phys                 - Show PHY link state
    link <addr> up|down  - Connect or disconnect a link partner

  Boot:
    initcalls            - Show initcall results
    tree                 - Show the firmware tree

  General:
    help                 - Show this help
    quit                 - Exit`)
}

func (s *Shell) cmdDevices() {
	fmt.Fprintf(s.out, "%-10s %-28s %-20s\n", "BUS", "DEVICE", "DRIVER")
	if b := s.env.Platform; b != nil {
		for _, dev := range b.Devices() {
			name, _ := b.DriverOf(dev)
			fmt.Fprintf(s.out, "%-10s %-28s %-20s\n", b.Name(), dev.DeviceName(), orDash(name))
		}
	}
	if b := s.env.PHY; b != nil {
		for _, dev := range b.Devices() {
			name, _ := b.DriverOf(dev)
			fmt.Fprintf(s.out, "%-10s %-28s %-20s\n", b.Name(), dev.DeviceName(), orDash(name))
		}
	}
}

func (s *Shell) cmdDrivers() {
	fmt.Fprintf(s.out, "%-10s %-24s %s\n", "BUS", "DRIVER", "CAPABILITIES")
	if b := s.env.Platform; b != nil {
		for _, info := range b.DriverInfos() {
			fmt.Fprintf(s.out, "%-10s %-24s %s\n", b.Name(), info.Name, info.Caps)
		}
	}
	if b := s.env.PHY; b != nil {
		for _, info := range b.DriverInfos() {
			fmt.Fprintf(s.out, "%-10s %-24s %s\n", b.Name(), info.Name, info.Caps)
		}
	}
}

// deviceOp runs the platform or PHY variant of an operation on the
// device named by args[0].
func (s *Shell) deviceOp(args []string, usage string, onPlatform func(*platform.Bus, *platform.Device) error, onPHY func(*phy.Bus, *phy.Device) error) {
	if len(args) < 1 {
		fmt.Fprintf(s.out, "Usage: %s\n", usage)
		return
	}
	name := args[0]
	if b := s.env.Platform; b != nil {
		if dev, ok := b.Lookup(name); ok {
			s.report(name, onPlatform(b, dev))
			return
		}
	}
	if b := s.env.PHY; b != nil {
		if dev, ok := b.Lookup(name); ok {
			s.report(name, onPHY(b, dev))
			return
		}
	}
	fmt.Fprintf(s.out, "No such device: %s\n", name)
}

func (s *Shell) report(name string, err error) {
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s: ok\n", name)
}

func (s *Shell) cmdBind(args []string) {
	s.deviceOp(args, "bind <device>",
		func(b *platform.Bus, dev *platform.Device) error { return bindResult(b.Bind(dev)) },
		func(b *phy.Bus, dev *phy.Device) error { return bindResult(b.Bind(dev)) },
	)
}

func bindResult(bound bool, err error) error {
	if err != nil {
		return err
	}
	if !bound {
		return fmt.Errorf("no matching driver")
	}
	return nil
}

func (s *Shell) cmdUnbind(args []string) {
	s.deviceOp(args, "unbind <device>",
		func(b *platform.Bus, dev *platform.Device) error { return b.Unbind(dev) },
		func(b *phy.Bus, dev *phy.Device) error { return b.Unbind(dev) },
	)
}

func (s *Shell) cmdSuspend(args []string, suspend bool) {
	if suspend {
		s.deviceOp(args, "suspend <device>",
			func(b *platform.Bus, dev *platform.Device) error { return b.Suspend(dev) },
			func(b *phy.Bus, dev *phy.Device) error { return b.Suspend(dev) },
		)
		return
	}
	s.deviceOp(args, "resume <device>",
		func(b *platform.Bus, dev *platform.Device) error { return b.Resume(dev) },
		func(b *phy.Bus, dev *phy.Device) error { return b.Resume(dev) },
	)
}

func (s *Shell) cmdIRQ(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: irq <line>")
		return
	}
	line, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid line: %s\n", args[0])
		return
	}
	if s.env.IRQ == nil {
		fmt.Fprintln(s.out, "No interrupt domain")
		return
	}
	ret := s.env.IRQ.Raise(uint32(line))
	fmt.Fprintf(s.out, "irq %d: %s\n", line, ret)
}

func (s *Shell) cmdIRQs() {
	if s.env.IRQ == nil {
		fmt.Fprintln(s.out, "No interrupt domain")
		return
	}
	fmt.Fprintf(s.out, "%-6s %-8s %s\n", "IRQ", "COUNT", "ACTIONS")
	for _, l := range s.env.IRQ.Lines() {
		fmt.Fprintf(s.out, "%-6d %-8d %s\n", l.IRQ, l.Count, strings.Join(l.Actions, ","))
	}
}

func (s *Shell) cmdLink(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: link <addr> up|down")
		return
	}
	addr, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil || addr > phy.MaxAddr {
		fmt.Fprintf(s.out, "Invalid address: %s\n", args[0])
		return
	}
	var up bool
	switch strings.ToLower(args[1]) {
	case "up":
		up = true
	case "down":
	default:
		fmt.Fprintln(s.out, "Usage: link <addr> up|down")
		return
	}
	if s.env.MDIO == nil {
		fmt.Fprintln(s.out, "No MDIO bus")
		return
	}

	partner := phy.AdvertiseCSMA | phy.Advertise10Half | phy.Advertise10Full | phy.Advertise100Half | phy.Advertise100Full
	if err := s.env.MDIO.SetLink(uint8(addr), up, partner); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if s.env.PHY == nil {
		return
	}
	for _, dev := range s.env.PHY.Devices() {
		if dev.Addr() != uint8(addr) {
			continue
		}
		changed, err := dev.Poll()
		if err != nil {
			fmt.Fprintf(s.out, "%s: poll: %v\n", dev.DeviceName(), err)
			continue
		}
		if changed {
			fmt.Fprintf(s.out, "%s: link %s\n", dev.DeviceName(), linkString(dev))
		}
	}
}

func (s *Shell) cmdPHYs() {
	if s.env.PHY == nil {
		fmt.Fprintln(s.out, "No PHY bus")
		return
	}
	fmt.Fprintf(s.out, "%-16s %-10s %-10s %-6s %s\n", "DEVICE", "ID", "STATE", "LINK", "MODE")
	for _, dev := range s.env.PHY.Devices() {
		mode := "-"
		if dev.IsLinkUp() {
			mode = fmt.Sprintf("%d/%s", dev.Speed(), dev.Duplex())
		}
		fmt.Fprintf(s.out, "%-16s 0x%08x %-10s %-6s %s\n", dev.DeviceName(), dev.PhyID(), dev.State(), linkString(dev), mode)
	}
}

func linkString(dev *phy.Device) string {
	if dev.IsLinkUp() {
		return "up"
	}
	return "down"
}

func (s *Shell) cmdInitcalls() {
	if s.env.Sequencer == nil {
		fmt.Fprintln(s.out, "Not booted")
		return
	}
	st := s.env.Sequencer.Status()
	fmt.Fprintf(s.out, "State: %s\n", st.State)
	fmt.Fprintf(s.out, "%-12s %-36s %-6s %s\n", "LEVEL", "NAME", "CODE", "TIME")
	for _, r := range s.env.Sequencer.Results() {
		fmt.Fprintf(s.out, "%-12s %-36s %-6d %s\n", fmt.Sprintf("%s+%d", r.Level, r.Offset), r.Name, r.Code, r.Duration)
	}
	if s.env.Initcalls != nil {
		if mods := s.env.Initcalls.Modules(); len(mods) > 0 {
			fmt.Fprintf(s.out, "Modules: %s\n", strings.Join(mods, ", "))
		}
	}
}

func (s *Shell) cmdTree() {
	if s.env.Tree == nil {
		fmt.Fprintln(s.out, "No firmware tree")
		return
	}
	s.env.Tree.Walk(func(n *of.Node) bool {
		name, depth := n.Name(), strings.Count(n.FullName(), "/")
		if n.Parent() == nil {
			name, depth = "/", 0
		}
		indent := strings.Repeat("  ", depth)
		if compat := n.Compatible(); len(compat) > 0 {
			fmt.Fprintf(s.out, "%s%s [%s]\n", indent, name, strings.Join(compat, ", "))
		} else {
			fmt.Fprintf(s.out, "%s%s\n", indent, name)
		}
		return true
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
