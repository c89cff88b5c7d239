package accessor

import "github.com/avalon-vm/panda"

// ClassDataAccessor lazily walks a class record: a fixed prefix (super
// class id, access flags, field count, method count, interface count,
// interface ids) followed by the tagged section SOURCE_LANG,
// RUNTIME_ANNOTATION, ANNOTATION, SOURCE_FILE, terminated by TagNothing,
// followed immediately by NumFields field records and NumMethods method
// records back to back (not themselves tagged — their counts are read
// eagerly). Grounded on class_data_accessor-inl.h's Skip*/Get* chain and
// tag order.
type ClassDataAccessor struct {
	pf      *panda.File
	classID panda.EntityID

	superClassID panda.EntityID
	accessFlags  uint64
	numFields    uint64
	numMethods   uint64
	ifaceIDs     []panda.EntityID

	cursorOff uint32
	stage     classStage

	sourceLang    uint8
	hasSourceLang bool
	runtimeAnn    []panda.EntityID
	ann           []panda.EntityID
	sourceFileID  panda.EntityID
	hasSourceFile bool

	fieldsOff  uint32
	methodsOff uint32
	size       uint32
}

type classStage int

const (
	classStageSourceLang classStage = iota
	classStageRuntimeAnnotations
	classStageAnnotations
	classStageSourceFile
	classStageDone
)

// NewClassDataAccessor parses the fixed prefix of the class record at
// classID. Each interface is stored as a 2-byte class-index slot, matching
// the file format's u16 class indices.
func NewClassDataAccessor(pf *panda.File, classID panda.EntityID) (*ClassDataAccessor, error) {
	off := uint32(classID)

	superID, off, err := readEntityID(pf, off)
	if err != nil {
		return nil, err
	}
	flags, off, err := pf.ReadULEB128(off)
	if err != nil {
		return nil, err
	}
	numFields, off, err := pf.ReadULEB128(off)
	if err != nil {
		return nil, err
	}
	numMethods, off, err := pf.ReadULEB128(off)
	if err != nil {
		return nil, err
	}
	numIfaces, off, err := pf.ReadULEB128(off)
	if err != nil {
		return nil, err
	}

	ifaceIDs := make([]panda.EntityID, numIfaces)
	for i := range ifaceIDs {
		idx, err := pf.ReadUint16(off)
		if err != nil {
			return nil, err
		}
		ifaceIDs[i] = panda.EntityID(idx)
		off += 2
	}

	return &ClassDataAccessor{
		pf:           pf,
		classID:      classID,
		superClassID: superID,
		accessFlags:  flags,
		numFields:    numFields,
		numMethods:   numMethods,
		ifaceIDs:     ifaceIDs,
		cursorOff:    off,
	}, nil
}

func (cda *ClassDataAccessor) SuperClassID() panda.EntityID { return cda.superClassID }
func (cda *ClassDataAccessor) AccessFlags() uint64          { return cda.accessFlags }
func (cda *ClassDataAccessor) NumFields() uint64            { return cda.numFields }
func (cda *ClassDataAccessor) NumMethods() uint64           { return cda.numMethods }
func (cda *ClassDataAccessor) NumInterfaces() int           { return len(cda.ifaceIDs) }

// InterfaceID returns the raw u16 class-index slot value stored for the
// idx'th interface. The value is not looked up in the file's class index:
// callers receive the slot value itself as an EntityID.
func (cda *ClassDataAccessor) InterfaceID(idx int) panda.EntityID { return cda.ifaceIDs[idx] }

// SourceLang returns the class's declared source-language tag, if any.
func (cda *ClassDataAccessor) SourceLang() (uint8, bool, error) {
	if err := cda.advanceTo(classStageRuntimeAnnotations); err != nil {
		return 0, false, err
	}
	return cda.sourceLang, cda.hasSourceLang, nil
}

// RuntimeAnnotations returns the class's runtime-visible annotation ids.
func (cda *ClassDataAccessor) RuntimeAnnotations() ([]panda.EntityID, error) {
	if err := cda.advanceTo(classStageAnnotations); err != nil {
		return nil, err
	}
	return cda.runtimeAnn, nil
}

// Annotations returns the class's compile-time annotation ids.
func (cda *ClassDataAccessor) Annotations() ([]panda.EntityID, error) {
	if err := cda.advanceTo(classStageSourceFile); err != nil {
		return nil, err
	}
	return cda.ann, nil
}

// SourceFileID returns the id of the class's source-file string, if any.
func (cda *ClassDataAccessor) SourceFileID() (panda.EntityID, bool, error) {
	if err := cda.advanceTo(classStageDone); err != nil {
		return 0, false, err
	}
	return cda.sourceFileID, cda.hasSourceFile, nil
}

func (cda *ClassDataAccessor) advanceTo(target classStage) error {
	for cda.stage < target {
		tag, err := cda.pf.NewTagCursor(cda.cursorOff).Next()
		if err != nil {
			return err
		}

		switch cda.stage {
		case classStageSourceLang:
			if tag == panda.TagSourceLang {
				b, err := cda.pf.ReadUint8(cda.cursorOff + 1)
				if err != nil {
					return err
				}
				cda.sourceLang, cda.hasSourceLang, cda.cursorOff = b, true, cda.cursorOff+2
			}
			cda.stage = classStageRuntimeAnnotations

		case classStageRuntimeAnnotations:
			if tag == panda.TagRuntimeAnnotations {
				ids, next, err := readEntityIDList(cda.pf, cda.cursorOff+1)
				if err != nil {
					return err
				}
				cda.runtimeAnn, cda.cursorOff = ids, next
			}
			cda.stage = classStageAnnotations

		case classStageAnnotations:
			if tag == panda.TagAnnotations {
				ids, next, err := readEntityIDList(cda.pf, cda.cursorOff+1)
				if err != nil {
					return err
				}
				cda.ann, cda.cursorOff = ids, next
			}
			cda.stage = classStageSourceFile

		case classStageSourceFile:
			if tag == panda.TagSourceFile {
				id, next, err := readEntityID(cda.pf, cda.cursorOff+1)
				if err != nil {
					return err
				}
				cda.sourceFileID, cda.hasSourceFile, cda.cursorOff = id, true, next
			}
			term, err := cda.pf.ReadUint8(cda.cursorOff)
			if err != nil {
				return err
			}
			if panda.Tag(term) != panda.TagNothing {
				return panda.ErrTruncatedRecord
			}
			cda.cursorOff++
			cda.fieldsOff = cda.cursorOff
			cda.stage = classStageDone
		}
	}
	return nil
}

// Fields parses and returns all of the class's field records. Each call
// reparses from fieldsOff; callers that need repeated access should cache
// the result themselves, matching the accessor's "compute once, the
// caller owns the result" contract used throughout this package.
func (cda *ClassDataAccessor) Fields() ([]*FieldDataAccessor, error) {
	if err := cda.advanceTo(classStageDone); err != nil {
		return nil, err
	}
	external := cda.accessFlags&ClassFlagExternal != 0
	off := cda.fieldsOff
	fields := make([]*FieldDataAccessor, cda.numFields)
	for i := range fields {
		fda, err := NewFieldDataAccessor(cda.pf, panda.EntityID(off), external)
		if err != nil {
			return nil, err
		}
		fields[i] = fda
		size, err := fda.Size()
		if err != nil {
			return nil, err
		}
		off += size
	}
	cda.methodsOff = off
	return fields, nil
}

// Methods parses and returns all of the class's method records. Fields
// must have been consumed first (directly or via Methods, which calls it)
// since method records immediately follow field records.
func (cda *ClassDataAccessor) Methods() ([]*MethodDataAccessor, error) {
	if cda.methodsOff == 0 {
		if _, err := cda.Fields(); err != nil {
			return nil, err
		}
	}
	off := cda.methodsOff
	methods := make([]*MethodDataAccessor, cda.numMethods)
	for i := range methods {
		mda, err := NewMethodDataAccessor(cda.pf, panda.EntityID(off))
		if err != nil {
			return nil, err
		}
		methods[i] = mda
		size, err := mda.Size()
		if err != nil {
			return nil, err
		}
		off += size
	}
	cda.size = off - uint32(cda.classID)
	return methods, nil
}

// Size returns the byte length of the whole class record, including its
// fields and methods. Valid only after Methods has been consumed.
func (cda *ClassDataAccessor) Size() uint32 { return cda.size }

// ClassFlagExternal marks a class (and by inheritance its fields/methods)
// as declared outside this file.
const ClassFlagExternal uint64 = 1 << 0
