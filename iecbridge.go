// This file is part of IECBridge.
//
// IECBridge is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// IECBridge is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with IECBridge.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"

	"github.com/iecbridge/iecbridge/curated"
	"github.com/iecbridge/iecbridge/display"
	"github.com/iecbridge/iecbridge/hardware/bus"
	"github.com/iecbridge/iecbridge/hardware/dispatch"
	"github.com/iecbridge/iecbridge/hardware/drive"
	"github.com/iecbridge/iecbridge/hardware/iec"
	"github.com/iecbridge/iecbridge/hardware/simbus"
	"github.com/iecbridge/iecbridge/logger"
	"github.com/iecbridge/iecbridge/modalflag"
	"github.com/iecbridge/iecbridge/statsview"
	"github.com/iecbridge/iecbridge/transport"
	"github.com/iecbridge/iecbridge/version"
)

// serial bus command bytes. the low bits carry the device or channel number.
const (
	cmdListen    = 0x20
	cmdUnlisten  = 0x3f
	cmdTalk      = 0x40
	cmdUntalk    = 0x5f
	cmdSecondary = 0x60
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "EXCHANGE", "RESET", "POLL", "DUMP", "VERSION")
	md.AdditionalHelp(
		`The RUN mode is a live monitor of the serial bus: single keypresses drive the
bus while the status line shows line states and transfer counters.

The EXCHANGE mode performs one complete transaction with the simulated drive:
address it as a listener, send a message, turn the bus around and read the
reply.`)

	logEcho := md.AddBool("log", false, "echo log entries to stderr as they happen")
	stats := md.AddBool("stats", false, "launch the stats server")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Fprintf(os.Stderr, "* %s\n", err)
		os.Exit(10)
	}

	if *logEcho {
		logger.SetEcho(os.Stderr)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("* stats server not available in this build. build with statsview tag")
		}
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "EXCHANGE":
		err = exchange(md)
	case "RESET":
		err = reset(md)
	case "POLL":
		err = poll(md)
	case "DUMP":
		err = dump(md)
	case "VERSION":
		ver, rev, release := version.Version()
		fmt.Printf("%s %s\n", version.ApplicationName, ver)
		if !release {
			fmt.Printf("  %s\n", rev)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* %s\n", err)
		os.Exit(10)
	}
}

// workbench gathers the simulated bus, the device on the end of it and the
// protocol engine. every program mode starts from one of these.
type workbench struct {
	sb  *simbus.SimBus
	drv *drive.Drive
	eng *iec.Engine
}

func newWorkbench() *workbench {
	wb := &workbench{}
	wb.sb = simbus.NewSimBus()
	wb.drv = drive.New(wb.sb)
	wb.eng = iec.NewEngine(wb.sb, wb.sb)
	return wb
}

func run(md *modalflag.Modes) error {
	md.NewMode()
	device := md.AddInt("device", 8, "device number of the simulated drive")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	wb := newWorkbench()
	wb.drv.Echo = true

	scr, err := display.NewStatusLine(os.Stdin, os.Stdout)
	if err != nil {
		return curated.Errorf("run: %v", err)
	}
	defer scr.Close()

	next := byte('A')

	done := false
	for !done {
		scr.Update(wb.eng.Poll())

		k, err := scr.ReadKey()
		if err != nil {
			return curated.Errorf("run: %v", err)
		}

		switch k {
		case 'w':
			wb.eng.Display = scr.NoteWritten
			wb.eng.Write([]byte{byte(cmdListen | *device), cmdSecondary | 15}, true, false)
			wb.eng.Write([]byte{next}, false, false)
			wb.eng.Write([]byte{cmdUnlisten}, true, false)
			wb.eng.Display = nil
			next++
			if next > 'Z' {
				next = 'A'
			}
		case 'r':
			wb.eng.Display = scr.NoteRead
			if wb.eng.Write([]byte{byte(cmdTalk | *device), cmdSecondary | 15}, true, true) > 0 {
				buf := make([]byte, dispatch.BufferSize)
				wb.eng.Read(buf)
				wb.eng.Write([]byte{cmdUntalk}, true, false)
			}
			wb.eng.Display = nil
		case 'x':
			wb.eng.Reset()
		case 'p':
			// redraw only. handled by the Update() at the top of the loop
		case 'q':
			done = true
		}
	}

	return nil
}

func exchange(md *modalflag.Modes) error {
	md.NewMode()
	device := md.AddInt("device", 8, "device number of the simulated drive")
	channel := md.AddInt("channel", 15, "channel to address")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	msg := []byte(strings.Join(md.RemainingArgs(), " "))
	if len(msg) == 0 {
		msg = []byte("HELLO FROM IECBRIDGE")
	}

	wb := newWorkbench()
	pp := transport.NewPipe()
	dsp := dispatch.NewDispatcher(wb.eng, pp)

	// async commands report a failure flag: zero means success
	command := func(a byte, b byte, talk bool) error {
		dsp.SubmitAsync([]byte{a, b}, true, talk)
		dsp.Handle()
		if dsp.CollectResult() != 0 {
			return curated.Errorf("exchange: no device %d on the bus", *device)
		}
		return nil
	}

	// address the drive as a listener and send the message
	if err := command(byte(cmdListen|*device), byte(cmdSecondary|*channel), false); err != nil {
		return err
	}

	mark := len(wb.drv.Received())
	pp.HostSend(msg)
	if dsp.SubmitWrite(len(msg)) == 0 {
		return curated.Errorf("exchange: transport failure")
	}
	dsp.Handle()
	sent := dsp.CollectResult()
	fmt.Printf("sent %d of %d bytes\n", sent, len(msg))

	dsp.SubmitAsync([]byte{cmdUnlisten}, true, false)
	dsp.Handle()
	dsp.CollectResult()

	// the drive answers with what it heard
	wb.drv.Load(wb.drv.Received()[mark:])

	// turn the bus around and read the reply
	if err := command(byte(cmdTalk|*device), byte(cmdSecondary|*channel), true); err != nil {
		return err
	}

	reply := []byte{}
	for !wb.eng.EOI() {
		dsp.RequestRead(dispatch.BufferSize)
		dsp.Handle()
		n := dsp.CollectRead(dispatch.BufferSize)
		if n == 0 {
			break // for loop
		}
		reply = append(reply, pp.HostRecv()...)
	}

	dsp.SubmitAsync([]byte{cmdUntalk}, true, false)
	dsp.Handle()
	dsp.CollectResult()

	fmt.Printf("reply: %s\n", string(reply))

	return nil
}

func reset(md *modalflag.Modes) error {
	md.NewMode()
	absent := md.AddBool("absent", false, "reset a bus with no devices attached")
	recovery := md.AddInt("recovery", 300, "drive reset recovery time in milliseconds")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	wb := newWorkbench()
	wb.drv.Absent = *absent
	wb.drv.ResetRecovery = time.Duration(*recovery) * time.Millisecond

	start := wb.sb.Now()
	wb.eng.Reset()
	fmt.Printf("bus reset complete after %s\n", wb.sb.Now()-start)

	return nil
}

func poll(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	wb := newWorkbench()
	lines := wb.eng.Poll()

	for _, l := range []bus.Line{bus.LineData, bus.LineClock, bus.LineAtn} {
		state := "released"
		if lines&l == l {
			state = "asserted"
		}
		fmt.Printf("%s\t%s\n", l, state)
	}

	return nil
}

func dump(md *modalflag.Modes) error {
	md.NewMode()
	output := md.AddString("o", "iecbridge.dot", "target file for the memory graph. use - for stdout")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	// exercise the dispatcher a little so the graph shows a machine that has
	// been somewhere
	wb := newWorkbench()
	wb.drv.Echo = true
	pp := transport.NewPipe()
	dsp := dispatch.NewDispatcher(wb.eng, pp)
	dsp.SubmitAsync([]byte{cmdListen | 8, cmdSecondary | 15}, true, false)
	dsp.Handle()
	dsp.CollectResult()

	out := os.Stdout
	if *output != "-" {
		var err error
		out, err = os.Create(*output)
		if err != nil {
			return curated.Errorf("dump: %v", err)
		}
		defer out.Close()
	}

	memviz.Map(out, dsp)

	if *output != "-" {
		fmt.Printf("memory graph written to %s\n", *output)
	}

	return nil
}
