package main

import (
	"fmt"

	"github.com/vjardin/ecoli"
	"github.com/vjardin/ecoli/nodes"
)

const (
	nameRegexp = `[A-Za-z][-_a-zA-Z0-9]+`
	ipv4Regexp = `[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}`
)

// result accumulates the output of running one matched command line: the
// lines to print, and whether the session should end.
type result struct {
	lines []string
	quit  bool
}

func (r *result) printf(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// resultBox holds the result of the command line currently being run.
// The grammar is built once and reused across many lines, but each line
// needs its own fresh result; runLine swaps box.cur in before walking
// the matched tree's callbacks, all of which close over the same box.
type resultBox struct {
	cur *result
}

// buildGrammar assembles the pool-editline grammar:
//
//	pool list
//	pool add|del <name>
//	addr pool <name> list
//	addr pool <name> add|del <ipv4>
//	exit
//
// Every leaf that performs an action is given a callback (via
// nodes.SetCallback), and the <name>/<ipv4> leaves get callbacks that
// capture their token. Once a full line has matched, runLine runs the
// capture callbacks first and then every callback in match order, so an
// action sees the arguments typed after it.
func buildGrammar(store *Store, box *resultBox) (*ecoli.Node, error) {
	var poolName, poolName2, addr string

	captureInto := func(dst *string) nodes.Callback {
		return func(pn *ecoli.PNode) error {
			if pn.Strvec().Len() != 1 {
				return nil
			}
			*dst = pn.Strvec().Get(0)
			return nil
		}
	}

	nameNode, err := nodes.Re("name", nameRegexp)
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(nameNode, "the pool name")
	nodes.SetCallback(nameNode, captureInto(&poolName))

	poolList, err := nodes.Str("list", "list")
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(poolList, "list every known pool")
	nodes.SetCallback(poolList, func(pn *ecoli.PNode) error {
		box.cur.printf("pools: %v", store.Names())
		return nil
	})

	poolAdd, err := nodes.Str("add", "add")
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(poolAdd, "create a pool")
	nodes.SetCallback(poolAdd, func(pn *ecoli.PNode) error {
		store.AddPool(poolName)
		box.cur.printf("added pool %s", poolName)
		return nil
	})

	poolDel, err := nodes.Str("del", "del")
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(poolDel, "delete a pool")
	nodes.SetCallback(poolDel, func(pn *ecoli.PNode) error {
		if store.DelPool(poolName) {
			box.cur.printf("deleted pool %s", poolName)
		} else {
			box.cur.printf("no such pool: %s", poolName)
		}
		return nil
	})

	poolCmd, err := nodes.Cmd("pool-cmd", "pool list|(add|del name)", poolList, poolAdd, poolDel, nameNode)
	if err != nil {
		return nil, err
	}

	name2Node, err := nodes.Re("name", nameRegexp)
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(name2Node, "the pool name")
	nodes.SetCallback(name2Node, captureInto(&poolName2))

	ipv4Node, err := nodes.Re("ipv4", ipv4Regexp)
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(ipv4Node, "an IPv4 address")
	nodes.SetCallback(ipv4Node, captureInto(&addr))

	addrList, err := nodes.Str("list", "list")
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(addrList, "list every address in the pool")
	nodes.SetCallback(addrList, func(pn *ecoli.PNode) error {
		p := store.Get(poolName2)
		if p == nil {
			box.cur.printf("no such pool: %s", poolName2)
			return nil
		}
		box.cur.printf("%s", p.String())
		return nil
	})

	addrAdd, err := nodes.Str("add", "add")
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(addrAdd, "add an address to the pool")
	nodes.SetCallback(addrAdd, func(pn *ecoli.PNode) error {
		p := store.Get(poolName2)
		if p == nil {
			box.cur.printf("no such pool: %s", poolName2)
			return nil
		}
		if p.AddAddr(addr) {
			box.cur.printf("added %s to %s", addr, poolName2)
		} else {
			box.cur.printf("%s is already in %s", addr, poolName2)
		}
		return nil
	})

	addrDel, err := nodes.Str("del", "del")
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(addrDel, "remove an address from the pool")
	nodes.SetCallback(addrDel, func(pn *ecoli.PNode) error {
		p := store.Get(poolName2)
		if p == nil {
			box.cur.printf("no such pool: %s", poolName2)
			return nil
		}
		if p.DelAddr(addr) {
			box.cur.printf("removed %s from %s", addr, poolName2)
		} else {
			box.cur.printf("%s is not in %s", addr, poolName2)
		}
		return nil
	})

	addrCmd, err := nodes.Cmd("addr-cmd", "addr pool name list|(add|del ipv4)",
		name2Node, addrList, addrAdd, addrDel, ipv4Node)
	if err != nil {
		return nil, err
	}

	exitNode, err := nodes.Str("exit", "exit")
	if err != nil {
		return nil, err
	}
	nodes.SetHelp(exitNode, "leave the shell")
	nodes.SetCallback(exitNode, func(pn *ecoli.PNode) error {
		box.cur.quit = true
		return nil
	})

	root, err := nodes.Or("root", poolCmd, addrCmd, exitNode)
	if err != nil {
		return nil, err
	}

	top, err := nodes.ShLex("top", root)
	if err != nil {
		return nil, err
	}
	return top, nil
}

// runLine parses line against grammar and, if it matches, runs the
// callbacks attached to whatever it matched, collecting their output
// into a fresh result. box must be the same resultBox the grammar's
// callbacks were built against, since that is how they report back.
func runLine(grammar *ecoli.Node, box *resultBox, line string) (*result, error) {
	box.cur = &result{}
	pn, err := ecoli.Parse(grammar, line)
	if err != nil {
		return nil, err
	}
	if !pn.Matches() {
		box.cur.printf("parse error: %q is not a valid command", line)
		return box.cur, nil
	}
	// The <name> and <ipv4> leaves (the grammar's only re nodes) can
	// follow the action word that reads them, so their capture callbacks
	// run in a first pass before WalkCallbacks runs every callback.
	for p := pn; p != nil; p = p.IterNext(pn, true) {
		if p.Node() == nil || !p.Matches() || !p.Node().CheckType("re") {
			continue
		}
		if cb, ok := nodes.GetCallback(p.Node()); ok {
			if err := cb(p); err != nil {
				return nil, err
			}
		}
	}
	if err := nodes.WalkCallbacks(pn); err != nil {
		return nil, err
	}
	return box.cur, nil
}
