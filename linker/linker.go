// Package linker resolves class records out of a panda file into fully
// laid-out Class values: base classes and interfaces are resolved
// recursively, fields are laid out by size class, and methods are assigned
// v-table slots (spec.md §4.8).
package linker

import (
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/avalon-vm/panda"
	"github.com/avalon-vm/panda/accessor"
	"github.com/avalon-vm/panda/internal/ident"
)

// ClassLinker resolves classes across any number of panda files and
// contexts, collapsing concurrent resolutions of the same (file, class id)
// onto a single loader. Grounded on
// original_source/runtime/class_linker.cpp's ClassLinker: its per-thread
// "currently resolving" set becomes an explicitly-threaded
// map[panda.EntityID]bool (see resolve), and its insert_class CAS becomes
// Context.publish backed by a singleflight.Group, which subsumes the
// original's free/adopt dance entirely since only one loader ever runs for
// a given key.
type ClassLinker struct {
	boot  *Context
	group singleflight.Group
}

// NewClassLinker returns a linker with a fresh boot context.
func NewClassLinker() *ClassLinker {
	return &ClassLinker{boot: NewBootContext()}
}

// Boot returns the linker's boot context.
func (cl *ClassLinker) Boot() *Context { return cl.boot }

// ResolveClass resolves the class at id within ctx (the boot context when
// ctx is nil), publishing it so later callers observe the same *Class
// (spec.md §4.8 steps 1-8).
func (cl *ClassLinker) ResolveClass(pf *panda.File, id panda.EntityID, ctx *Context) (*Class, error) {
	if ctx == nil {
		ctx = cl.boot
	}
	key := fmt.Sprintf("%p#%d", pf, id)
	v, err, _ := cl.group.Do(key, func() (interface{}, error) {
		return cl.resolve(pf, id, ctx, make(map[panda.EntityID]bool))
	})
	if err != nil {
		return nil, err
	}
	return v.(*Class), nil
}

// resolve is the shared body behind ResolveClass and the recursive
// base-class/interface lookups loadClass performs: it checks the context
// chain for an already-published class, then the resolving set for a
// cycle, then loads and publishes. resolving is not popped as the
// recursion unwinds — like the original's thread_local set, it is scoped
// to one top-level ResolveClass call and accumulates every class visited
// during it, so cyclic inheritance anywhere in the transitive closure is
// caught, not just direct self-reference.
func (cl *ClassLinker) resolve(pf *panda.File, id panda.EntityID, ctx *Context, resolving map[panda.EntityID]bool) (*Class, error) {
	descriptor, dataOff, err := pf.StringSpan(id)
	if err != nil {
		return nil, err
	}
	if cls := ctx.find(descriptor); cls != nil {
		return cls, nil
	}
	if resolving[id] {
		return nil, fmt.Errorf("%s: %w", descriptor, ErrCircularity)
	}
	resolving[id] = true

	cls, err := cl.loadClass(pf, id, descriptor, dataOff, ctx, resolving)
	if err != nil {
		return nil, err
	}
	return ctx.publish(descriptor, cls), nil
}

// loadClass builds a Class from the class-data record at dataOff (the
// offset just past descriptor's string record), recursively resolving its
// base class and interfaces first (spec.md §4.8 steps 5-7).
func (cl *ClassLinker) loadClass(pf *panda.File, id panda.EntityID, descriptor string, dataOff uint32, ctx *Context, resolving map[panda.EntityID]bool) (*Class, error) {
	cda, err := accessor.NewClassDataAccessor(pf, panda.EntityID(dataOff))
	if err != nil {
		return nil, err
	}

	var base *Class
	if cda.SuperClassID().Valid() {
		base, err = cl.resolve(pf, cda.SuperClassID(), ctx, resolving)
		if err != nil {
			if !errors.Is(err, ErrCircularity) {
				err = fmt.Errorf("%w: %w", ErrBaseClassNotFound, err)
			}
			return nil, fmt.Errorf("%s: base class: %w", descriptor, err)
		}
	}

	ifaces := make([]*Class, cda.NumInterfaces())
	for i := range ifaces {
		iface, err := cl.resolve(pf, cda.InterfaceID(i), ctx, resolving)
		if err != nil {
			if !errors.Is(err, ErrCircularity) {
				err = fmt.Errorf("%w: %w", ErrBaseClassNotFound, err)
			}
			return nil, fmt.Errorf("%s: interface %d: %w", descriptor, i, err)
		}
		ifaces[i] = iface
	}

	fields, err := loadFields(pf, cda)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", descriptor, err)
	}

	methods, err := loadMethods(pf, cda)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", descriptor, err)
	}
	assignVTableSlots(methods, base)

	var instanceFields, staticFields []*Field
	for _, f := range fields {
		if f.Static {
			staticFields = append(staticFields, f)
		} else {
			instanceFields = append(instanceFields, f)
		}
	}

	instanceBase := uint32(ObjectHeaderSize)
	if base != nil {
		instanceBase = base.InstanceSize
	}

	return &Class{
		ID:           uint32(id),
		Descriptor:   descriptor,
		AccessFlags:  cda.AccessFlags(),
		Base:         base,
		Interfaces:   ifaces,
		Fields:       append(instanceFields, staticFields...),
		Methods:      methods,
		InstanceSize: layoutFields(instanceFields, instanceBase),
		StaticSize:   layoutFields(staticFields, 0),
	}, nil
}

func loadFields(pf *panda.File, cda *accessor.ClassDataAccessor) ([]*Field, error) {
	fdas, err := cda.Fields()
	if err != nil {
		return nil, err
	}
	fields := make([]*Field, len(fdas))
	for i, fda := range fdas {
		name, err := pf.StringAt(fda.NameID())
		if err != nil {
			return nil, err
		}
		typeName, err := pf.StringAt(fda.TypeDescriptorID())
		if err != nil {
			return nil, err
		}
		typ, err := ident.ParseDescriptor(typeName)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w: %v", name, ErrUnknownFieldType, err)
		}
		flags := fda.AccessFlags()
		fields[i] = &Field{
			Name:     name,
			Type:     typ,
			Static:   flags&FieldFlagStatic != 0,
			Volatile: flags&FieldFlagVolatile != 0,
		}
	}
	return fields, nil
}

func loadMethods(pf *panda.File, cda *accessor.ClassDataAccessor) ([]*Method, error) {
	mdas, err := cda.Methods()
	if err != nil {
		return nil, err
	}
	methods := make([]*Method, len(mdas))
	for i, mda := range mdas {
		name, err := pf.StringAt(mda.NameID())
		if err != nil {
			return nil, err
		}
		pda, err := accessor.NewProtoDataAccessor(pf, mda.ProtoID())
		if err != nil {
			return nil, err
		}
		methods[i] = &Method{
			Name:    name,
			Static:  mda.IsStatic(),
			NumArgs: pda.NumArgs(),
		}
	}
	return methods, nil
}

// assignVTableSlots gives every non-static method a sequential v-table
// index starting just past the base chain's virtual-method count
// (spec.md §4.8 treats the real v-table/i-table/i-m-table builders as
// opaque to the linker; this is the minimal slot-assignment a linker
// without an interpreter or compiler behind it needs, not a port of the
// original's builder machinery).
func assignVTableSlots(methods []*Method, base *Class) {
	next := virtualMethodCount(base)
	for _, m := range methods {
		if m.Static {
			m.VTableIndex = -1
			continue
		}
		m.VTableIndex = next
		next++
	}
}

func virtualMethodCount(c *Class) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, m := range c.Methods {
		if m.VTableIndex >= 0 {
			n++
		}
	}
	return n + virtualMethodCount(c.Base)
}
