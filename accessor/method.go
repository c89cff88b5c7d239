package accessor

import "github.com/avalon-vm/panda"

// Method access-flag bits consulted by this package. The full flag set is
// language-extension-defined; these two are the ones the accessor itself
// branches on.
const (
	MethodFlagStatic   uint64 = 1 << 0
	MethodFlagExternal uint64 = 1 << 1
)

// MethodDataAccessor lazily walks a method record: a fixed prefix (owning
// class id, proto id, name id, access flags) followed by the tagged
// section CODE, SOURCE_LANG, RUNTIME_ANNOTATION, RUNTIME_PARAM_ANNOTATION,
// DEBUG_INFO, ANNOTATION, PARAM_ANNOTATION, terminated by TagNothing.
// Grounded on method_data_accessor-inl.h's Skip*/Get* chain and tag order.
type MethodDataAccessor struct {
	pf       *panda.File
	methodID panda.EntityID
	external bool

	classID     panda.EntityID
	protoID     panda.EntityID
	nameID      panda.EntityID
	accessFlags uint64

	cursorOff uint32
	stage     methodStage

	codeID             panda.EntityID
	hasCode            bool
	sourceLang         uint8
	hasSourceLang      bool
	runtimeAnn         []panda.EntityID
	runtimeParamAnnID  panda.EntityID
	hasRuntimeParamAnn bool
	debugInfoID        panda.EntityID
	hasDebugInfo       bool
	ann                []panda.EntityID
	paramAnnID         panda.EntityID
	hasParamAnn        bool
	size               uint32
}

type methodStage int

const (
	methodStageCode methodStage = iota
	methodStageSourceLang
	methodStageRuntimeAnnotations
	methodStageRuntimeParamAnnotation
	methodStageDebugInfo
	methodStageAnnotations
	methodStageParamAnnotation
	methodStageDone
)

// NewMethodDataAccessor parses the fixed prefix of the method record at
// methodID.
func NewMethodDataAccessor(pf *panda.File, methodID panda.EntityID) (*MethodDataAccessor, error) {
	off := uint32(methodID)

	classID, off, err := readEntityID(pf, off)
	if err != nil {
		return nil, err
	}
	protoID, off, err := readEntityID(pf, off)
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

	return &MethodDataAccessor{
		pf:          pf,
		methodID:    methodID,
		external:    flags&MethodFlagExternal != 0,
		classID:     classID,
		protoID:     protoID,
		nameID:      nameID,
		accessFlags: flags,
		cursorOff:   off,
	}, nil
}

func (mda *MethodDataAccessor) ClassID() panda.EntityID { return mda.classID }
func (mda *MethodDataAccessor) ProtoID() panda.EntityID { return mda.protoID }
func (mda *MethodDataAccessor) NameID() panda.EntityID  { return mda.nameID }
func (mda *MethodDataAccessor) AccessFlags() uint64     { return mda.accessFlags }
func (mda *MethodDataAccessor) IsExternal() bool        { return mda.external }
func (mda *MethodDataAccessor) IsStatic() bool          { return mda.accessFlags&MethodFlagStatic != 0 }

// CodeID returns the method's code record id, or ok=false when external
// or abstract (no body).
func (mda *MethodDataAccessor) CodeID() (panda.EntityID, bool, error) {
	if mda.external {
		return 0, false, nil
	}
	if err := mda.advanceTo(methodStageSourceLang); err != nil {
		return 0, false, err
	}
	return mda.codeID, mda.hasCode, nil
}

// RuntimeParamAnnotationID returns the id of the runtime parameter
// annotation record, if any.
func (mda *MethodDataAccessor) RuntimeParamAnnotationID() (panda.EntityID, bool, error) {
	if mda.external {
		return 0, false, nil
	}
	if err := mda.advanceTo(methodStageDebugInfo); err != nil {
		return 0, false, err
	}
	return mda.runtimeParamAnnID, mda.hasRuntimeParamAnn, nil
}

// DebugInfoID returns the id of the method's debug-info record, if any.
func (mda *MethodDataAccessor) DebugInfoID() (panda.EntityID, bool, error) {
	if mda.external {
		return 0, false, nil
	}
	if err := mda.advanceTo(methodStageAnnotations); err != nil {
		return 0, false, err
	}
	return mda.debugInfoID, mda.hasDebugInfo, nil
}

// Size returns the byte length of the whole method record.
func (mda *MethodDataAccessor) Size() (uint32, error) {
	if err := mda.advanceTo(methodStageDone); err != nil {
		return 0, err
	}
	return mda.size, nil
}

func (mda *MethodDataAccessor) advanceTo(target methodStage) error {
	for mda.stage < target && mda.stage != methodStageDone {
		tag, err := mda.pf.NewTagCursor(mda.cursorOff).Next()
		if err != nil {
			return err
		}

		switch mda.stage {
		case methodStageCode:
			if tag == panda.TagCode {
				id, next, err := readEntityID(mda.pf, mda.cursorOff+1)
				if err != nil {
					return err
				}
				mda.codeID, mda.hasCode, mda.cursorOff = id, true, next
			}
			mda.stage = methodStageSourceLang

		case methodStageSourceLang:
			if tag == panda.TagSourceLang {
				b, err := mda.pf.ReadUint8(mda.cursorOff + 1)
				if err != nil {
					return err
				}
				mda.sourceLang, mda.hasSourceLang, mda.cursorOff = b, true, mda.cursorOff+2
			}
			mda.stage = methodStageRuntimeAnnotations

		case methodStageRuntimeAnnotations:
			if tag == panda.TagRuntimeAnnotations {
				ids, next, err := readEntityIDList(mda.pf, mda.cursorOff+1)
				if err != nil {
					return err
				}
				mda.runtimeAnn, mda.cursorOff = ids, next
			}
			mda.stage = methodStageRuntimeParamAnnotation

		case methodStageRuntimeParamAnnotation:
			if tag == panda.TagRuntimeParamAnnotations {
				id, next, err := readEntityID(mda.pf, mda.cursorOff+1)
				if err != nil {
					return err
				}
				mda.runtimeParamAnnID, mda.hasRuntimeParamAnn, mda.cursorOff = id, true, next
			}
			mda.stage = methodStageDebugInfo

		case methodStageDebugInfo:
			if tag == panda.TagDebugInfo {
				id, next, err := readEntityID(mda.pf, mda.cursorOff+1)
				if err != nil {
					return err
				}
				mda.debugInfoID, mda.hasDebugInfo, mda.cursorOff = id, true, next
			}
			mda.stage = methodStageAnnotations

		case methodStageAnnotations:
			if tag == panda.TagAnnotations {
				ids, next, err := readEntityIDList(mda.pf, mda.cursorOff+1)
				if err != nil {
					return err
				}
				mda.ann, mda.cursorOff = ids, next
			}
			mda.stage = methodStageParamAnnotation

		case methodStageParamAnnotation:
			if tag == panda.TagParamAnnotations {
				id, next, err := readEntityID(mda.pf, mda.cursorOff+1)
				if err != nil {
					return err
				}
				mda.paramAnnID, mda.hasParamAnn, mda.cursorOff = id, true, next
			}
			term, err := mda.pf.ReadUint8(mda.cursorOff)
			if err != nil {
				return err
			}
			if panda.Tag(term) != panda.TagNothing {
				return panda.ErrTruncatedRecord
			}
			mda.cursorOff++
			mda.size = mda.cursorOff - uint32(mda.methodID)
			mda.stage = methodStageDone
		}
	}
	return nil
}
