package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/avalon-vm/panda"
	"github.com/avalon-vm/panda/accessor"
)

func dumpClass(pf *panda.File, id panda.EntityID, wantFields, wantMethods bool) error {
	name, err := pf.StringAt(id)
	if err != nil {
		return fmt.Errorf("class %d: descriptor: %w", uint32(id), err)
	}
	fmt.Printf("class %s (id=%d)\n", name, uint32(id))

	cda, err := accessor.NewClassDataAccessor(pf, id)
	if err != nil {
		return fmt.Errorf("class %s: %w", name, err)
	}
	fmt.Printf("  super=%d fields=%d methods=%d interfaces=%d\n",
		uint32(cda.SuperClassID()), cda.NumFields(), cda.NumMethods(), cda.NumInterfaces())

	if wantFields {
		fields, err := cda.Fields()
		if err != nil {
			return fmt.Errorf("class %s: fields: %w", name, err)
		}
		for _, fda := range fields {
			fieldName, err := pf.StringAt(fda.NameID())
			if err != nil {
				return fmt.Errorf("class %s: field name: %w", name, err)
			}
			fmt.Printf("  field %s (access=%#x, external=%v)\n", fieldName, fda.AccessFlags(), fda.IsExternal())
		}
	}

	if wantMethods {
		methods, err := cda.Methods()
		if err != nil {
			return fmt.Errorf("class %s: methods: %w", name, err)
		}
		for _, mda := range methods {
			methodName, err := pf.StringAt(mda.NameID())
			if err != nil {
				return fmt.Errorf("class %s: method name: %w", name, err)
			}
			fmt.Printf("  method %s (access=%#x, static=%v, external=%v)\n",
				methodName, mda.AccessFlags(), mda.IsStatic(), mda.IsExternal())
		}
	}

	return nil
}

func main() {
	wantFields := flag.Bool("fields", false, "dump field records for each class")
	wantMethods := flag.Bool("methods", false, "dump method records for each class")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pandadisasm [-fields] [-methods] <panda-file>")
		os.Exit(2)
	}

	pf, err := panda.OpenFile(flag.Arg(0), nil)
	if err != nil {
		log.Fatalf("pandadisasm: cannot open %s: %v", flag.Arg(0), err)
	}
	defer pf.Close()

	ids, err := pf.ClassIDs()
	if err != nil {
		log.Fatalf("pandadisasm: cannot read class index: %v", err)
	}

	for _, id := range ids {
		if err := dumpClass(pf, id, *wantFields, *wantMethods); err != nil {
			log.Printf("pandadisasm: %v", err)
		}
	}
}
