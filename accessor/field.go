package accessor

import "github.com/avalon-vm/panda"

// FieldDataAccessor lazily walks a field record (spec §4.6): a fixed
// prefix (type descriptor id, name id, access flags) followed by an
// optional FIELD_VALUE, then RUNTIME_ANNOTATION and ANNOTATION id lists,
// terminated by TagNothing. Grounded on field_data_accessor-inl.h's
// Skip*/Get* memoization chain: each stage is read at most once and
// advances a cursor into the next.
type FieldDataAccessor struct {
	pf       *panda.File
	fieldID  panda.EntityID
	external bool

	typeDescriptor panda.EntityID
	nameID         panda.EntityID
	accessFlags    uint64

	cursorOff uint32 // byte offset of the next unread tagged item
	stage     fieldStage

	value      FieldValue
	hasValue   bool
	runtimeAnn []panda.EntityID
	ann        []panda.EntityID
	size       uint32
}

type fieldStage int

const (
	fieldStageValue fieldStage = iota
	fieldStageRuntimeAnnotations
	fieldStageAnnotations
	fieldStageDone
)

// NewFieldDataAccessor parses the fixed-size prefix of the field record at
// fieldID and returns an accessor positioned at its tagged section.
func NewFieldDataAccessor(pf *panda.File, fieldID panda.EntityID, external bool) (*FieldDataAccessor, error) {
	off := uint32(fieldID)

	typeID, off, err := readEntityID(pf, off)
	if err != nil {
		return nil, err
	}
	nameID, off, err := readEntityID(pf, off)
	if err != nil {
		return nil, err
	}
	flags, off, err := pf.ReadULEB128(off)
	if err != nil {
		return nil, err
	}

	return &FieldDataAccessor{
		pf:             pf,
		fieldID:        fieldID,
		external:       external,
		typeDescriptor: typeID,
		nameID:         nameID,
		accessFlags:    flags,
		cursorOff:      off,
	}, nil
}

func (fda *FieldDataAccessor) TypeDescriptorID() panda.EntityID { return fda.typeDescriptor }
func (fda *FieldDataAccessor) NameID() panda.EntityID           { return fda.nameID }
func (fda *FieldDataAccessor) AccessFlags() uint64              { return fda.accessFlags }
func (fda *FieldDataAccessor) IsExternal() bool                 { return fda.external }

// Value returns the field's compile-time constant, or ok=false when the
// field is external or carries none.
func (fda *FieldDataAccessor) Value() (FieldValue, bool, error) {
	if fda.external {
		return FieldValue{}, false, nil
	}
	if err := fda.advanceTo(fieldStageRuntimeAnnotations); err != nil {
		return FieldValue{}, false, err
	}
	return fda.value, fda.hasValue, nil
}

// RuntimeAnnotations returns the field's runtime-visible annotation ids.
func (fda *FieldDataAccessor) RuntimeAnnotations() ([]panda.EntityID, error) {
	if fda.external {
		return nil, nil
	}
	if err := fda.advanceTo(fieldStageAnnotations); err != nil {
		return nil, err
	}
	return fda.runtimeAnn, nil
}

// Annotations returns the field's compile-time annotation ids.
func (fda *FieldDataAccessor) Annotations() ([]panda.EntityID, error) {
	if fda.external {
		return nil, nil
	}
	if err := fda.advanceTo(fieldStageDone); err != nil {
		return nil, err
	}
	return fda.ann, nil
}

// Size returns the byte length of the whole field record, including the
// TagNothing terminator. It walks the tagged section itself when needed,
// for external fields too.
func (fda *FieldDataAccessor) Size() (uint32, error) {
	if err := fda.advanceTo(fieldStageDone); err != nil {
		return 0, err
	}
	return fda.size, nil
}

// advanceTo walks the tagged section stage by stage until reaching
// target, memoizing each stage so repeated calls are free.
func (fda *FieldDataAccessor) advanceTo(target fieldStage) error {
	for fda.stage < target && fda.stage != fieldStageDone {
		switch fda.stage {
		case fieldStageValue:
			tag, err := fda.pf.NewTagCursor(fda.cursorOff).Next()
			if err != nil {
				return err
			}
			if tag == panda.TagFieldValue {
				fv, next, err := readFieldValue(fda.pf, fda.cursorOff+1)
				if err != nil {
					return err
				}
				fda.value, fda.hasValue, fda.cursorOff = fv, true, next
			}
			fda.stage = fieldStageRuntimeAnnotations

		case fieldStageRuntimeAnnotations:
			tag, err := fda.pf.NewTagCursor(fda.cursorOff).Next()
			if err != nil {
				return err
			}
			if tag == panda.TagRuntimeAnnotations {
				ids, next, err := readEntityIDList(fda.pf, fda.cursorOff+1)
				if err != nil {
					return err
				}
				fda.runtimeAnn, fda.cursorOff = ids, next
			}
			fda.stage = fieldStageAnnotations

		case fieldStageAnnotations:
			tag, err := fda.pf.NewTagCursor(fda.cursorOff).Next()
			if err != nil {
				return err
			}
			if tag == panda.TagAnnotations {
				ids, next, err := readEntityIDList(fda.pf, fda.cursorOff+1)
				if err != nil {
					return err
				}
				fda.ann, fda.cursorOff = ids, next
			}
			// The NOTHING terminator always follows.
			term, err := fda.pf.ReadUint8(fda.cursorOff)
			if err != nil {
				return err
			}
			if panda.Tag(term) != panda.TagNothing {
				return panda.ErrTruncatedRecord
			}
			fda.cursorOff++
			fda.size = fda.cursorOff - uint32(fda.fieldID)
			fda.stage = fieldStageDone
		}
	}
	return nil
}
