package bytecode

// Life is the life operation family. Instructions end with LifeReturn.
var Life = newLifeTable()

// LifeFunction is the life function (condition) family. Instructions carry
// no terminator; the host reads them as an expression.
var LifeFunction = newLifeFunctionTable()

// Move is the move (track) family. Instructions end with MoveEnd.
var Move = newMoveTable()

func newLifeTable() *Table {
	e := make(map[byte]Entry)

	register(e, shape(), map[byte]string{
		LifeSuicide:             "SUICIDE",
		LifeEndLife:             "END_LIFE",
		LifeUseOneLittleKey:     "USE_ONE_LITTLE_KEY",
		LifeStopLTrack:          "STOP_L_TRACK",
		LifeRestoreLTrack:       "RESTORE_L_TRACK",
		LifeIncChapter:          "INC_CHAPTER",
		LifeIncCloverBox:        "INC_CLOVER_BOX",
		LifeFullPoint:           "FULL_POINT",
		LifeAction:              "ACTION",
		LifeSaveHero:            "SAVE_HERO",
		LifeRestoreHero:         "RESTORE_HERO",
		LifeGameOver:            "GAME_OVER",
		LifeTheEnd:              "THE_END",
		LifeNoBody:              "NO_BODY",
		LifeBrutalExit:          "BRUTAL_EXIT",
		LifeSaveComportement:    "SAVE_COMPORTEMENT",
		LifeRestoreComportement: "RESTORE_COMPORTEMENT",
		LifeInverseBeta:         "INVERSE_BETA",
	})

	register(e, shape(u8()), map[byte]string{
		LifePalette:             "PALETTE",
		LifeBody:                "BODY",
		LifeCameraCenter:        "CAMERA_CENTER",
		LifeFallable:            "FALLABLE",
		LifeCamFollow:           "CAM_FOLLOW",
		LifeComportementHero:    "COMPORTEMENT_HERO",
		LifeKillObj:             "KILL_OBJ",
		LifeGiveBonus:           "GIVE_BONUS",
		LifeChangeCube:          "CHANGE_CUBE",
		LifeObjCol:              "OBJ_COL",
		LifeBrickCol:            "BRICK_COL",
		LifeInvisible:           "INVISIBLE",
		LifePosPoint:            "POS_POINT",
		LifeSetMagicLevel:       "SET_MAGIC_LEVEL",
		LifeSubMagicPoint:       "SUB_MAGIC_POINT",
		LifeEclair:              "ECLAIR",
		LifeFoundObject:         "FOUND_OBJECT",
		LifeInitBuggy:           "INIT_BUGGY",
		LifeMemoArdoise:         "MEMO_ARDOISE",
		LifeSetHoloPos:          "SET_HOLO_POS",
		LifeClrHoloPos:          "CLR_HOLO_POS",
		LifeFadeToPal:           "FADE_TO_PAL",
		LifeSetSprite:           "SET_SPRITE",
		LifeSetFrame:            "SET_FRAME",
		LifeSetFrame3DS:         "SET_FRAME_3DS",
		LifeBulle:               "BULLE",
		LifeNoChoc:              "NO_CHOC",
		LifeCinemaMode:          "CINEMA_MODE",
		LifePluie:               "PLUIE",
		LifePlayMusic:           "PLAY_MUSIC",
		LifeTrackToVarGame:      "TRACK_TO_VAR_GAME",
		LifeVarGameToTrack:      "VAR_GAME_TO_TRACK",
		LifeAnimTexture:         "ANIM_TEXTURE",
		LifeSetUsedInventory:    "SET_USED_INVENTORY",
		LifeSetArmure:           "SET_ARMURE",
		LifeBackground:          "BACKGROUND",
		LifeStopLTrackObj:       "STOP_L_TRACK_OBJ",
		LifeRestoreLTrackObj:    "RESTORE_L_TRACK_OBJ",
		LifeSaveComportementObj: "SAVE_COMPORTEMENT_OBJ",
		LifeRestoreComportObj:   "RESTORE_COMPORTEMENT_OBJ",
	})

	register(e, shape(u8(), u8()), map[byte]string{
		LifeBodyObj:         "BODY_OBJ",
		LifeSetCamera:       "SET_CAMERA",
		LifeShadowObj:       "SHADOW_OBJ",
		LifeSetLifePointObj: "SET_LIFE_POINT_OBJ",
		LifeSubLifePointObj: "SUB_LIFE_POINT_OBJ",
		LifeHitObj:          "HIT_OBJ",
		LifeSetGrm:          "SET_GRM",
		LifeSetChangeCube:   "SET_CHANGE_CUBE",
		LifeEscalator:       "ESCALATOR",
		LifeEchelle:         "ECHELLE",
		LifeSetArmureObj:    "SET_ARMURE_OBJ",
		LifeAddLifePointObj: "ADD_LIFE_POINT_OBJ",
		LifeStateInventory:  "STATE_INVENTORY",
		LifeSetHitZone:      "SET_HIT_ZONE",
		LifeSetRail:         "SET_RAIL",
		LifeFlowPoint:       "FLOW_POINT",
		LifeFlowObj:         "FLOW_OBJ",
		LifePosObjAround:    "POS_OBJ_AROUND",
	})

	register(e, shape(u16()), map[byte]string{
		LifeAnim:        "ANIM",
		LifeAnimSet:     "ANIM_SET",
		LifeSetAnimDial: "SET_ANIM_DIAL",
	})

	register(e, shape(i16()), map[byte]string{
		LifeSetTrack:        "SET_TRACK",
		LifeBeta:            "BETA",
		LifeMessage:         "MESSAGE",
		LifeSetComportement: "SET_COMPORTEMENT",
		LifeGiveGoldPieces:  "GIVE_GOLD_PIECES",
		LifeSetDoorLeft:     "SET_DOOR_LEFT",
		LifeSetDoorRight:    "SET_DOOR_RIGHT",
		LifeSetDoorUp:       "SET_DOOR_UP",
		LifeSetDoorDown:     "SET_DOOR_DOWN",
		LifeAddChoice:       "ADD_CHOICE",
		LifeAskChoice:       "ASK_CHOICE",
		LifeMessageZoe:      "MESSAGE_ZOE",
		LifeSample:          "SAMPLE",
		LifeSampleRnd:       "SAMPLE_RND",
		LifeSampleAlways:    "SAMPLE_ALWAYS",
		LifeSampleStop:      "SAMPLE_STOP",
		LifeAddGoldPieces:   "ADD_GOLD_PIECES",
	})

	register(e, shape(u8(), i16()), map[byte]string{
		LifeSetTrackObj:        "SET_TRACK_OBJ",
		LifeSetComportementObj: "SET_COMPORTEMENT_OBJ",
		LifeMessageObj:         "MESSAGE_OBJ",
		LifeImpactPoint:        "IMPACT_POINT",
		LifeAskChoiceObj:       "ASK_CHOICE_OBJ",
	})

	e[LifeSetControl] = Entry{Name: "SET_CONTROL", Shape: withActor(0, u8())}
	e[LifeSetControlObj] = Entry{Name: "SET_CONTROL_OBJ", Shape: withActor(1, u8(), u8())}
	e[LifePcx] = Entry{Name: "PCX", Shape: shape(imageID(), u8Range(0, 1))}
	e[LifeAnimObj] = Entry{Name: "ANIM_OBJ", Shape: shape(u8(), u16())}
	e[LifePlayAcf] = Entry{Name: "PLAY_ACF", Shape: shape(str())}
	e[LifeImpactObj] = Entry{Name: "IMPACT_OBJ", Shape: shape(u8(), i16(), i16())}
	e[LifeRepeatSample] = Entry{Name: "REPEAT_SAMPLE", Shape: shape(i16(), u8())}
	e[LifeParmSample] = Entry{Name: "PARM_SAMPLE", Shape: shape(i16(), u8(), i16())}
	e[LifeNewSample] = Entry{Name: "NEW_SAMPLE", Shape: shape(i16(), i16(), u8(), i16())}
	e[LifePcxMessObj] = Entry{Name: "PCX_MESS_OBJ", Shape: shape(imageID(), u8Range(0, 1), u8(), i16())}

	return &Table{
		Family:      "life",
		Unsupported: "This opcode is not supported for Ida life operations: %d",
		Terminated:  true,
		Terminator:  LifeReturn,
		entries:     e,
		names: map[byte]string{
			LifeEnd:    "END",
			LifeNop:    "NOP",
			LifeReturn: "RETURN",
		},
	}
}

func newLifeFunctionTable() *Table {
	e := make(map[byte]Entry)

	register(e, shape(), map[byte]string{
		FuncCol:              "COL",
		FuncZone:             "ZONE",
		FuncLTrack:           "L_TRACK",
		FuncHitBy:            "HIT_BY",
		FuncAction:           "ACTION",
		FuncComportementHero: "COMPORTEMENT_HERO",
		FuncChoice:           "CHOICE",
		FuncCarryBy:          "CARRY_BY",
		FuncColDecors:        "COL_DECORS",
	})

	register(e, shape(u8()), map[byte]string{
		FuncColObj:          "COL_OBJ",
		FuncDistance:        "DISTANCE",
		FuncZoneObj:         "ZONE_OBJ",
		FuncLTrackObj:       "L_TRACK_OBJ",
		FuncConeView:        "CONE_VIEW",
		FuncDistance3D:      "DISTANCE_3D",
		FuncUseInventory:    "USE_INVENTORY",
		FuncEchelle:         "ECHELLE",
		FuncRail:            "RAIL",
		FuncCarryObjBy:      "CARRY_OBJ_BY",
		FuncAngle:           "ANGLE",
		FuncDistanceMessage: "DISTANCE_MESSAGE",
		FuncHitObjBy:        "HIT_OBJ_BY",
		FuncRealAngle:       "REAL_ANGLE",
		FuncColDecorsObj:    "COL_DECORS_OBJ",
		FuncObjectDisplayed: "OBJECT_DISPLAYED",
		FuncAngleObj:        "ANGLE_OBJ",
	})

	return &Table{
		Family:      "lifef",
		Unsupported: "Such opcode is not supported for Ida life functions: %d",
		entries:     e,
		names:       map[byte]string{},
	}
}

func newMoveTable() *Table {
	e := make(map[byte]Entry)

	register(e, shape(), map[byte]string{
		MoveWaitAnim:    "WAIT_ANIM",
		MoveNoBody:      "NO_BODY",
		MoveClose:       "CLOSE",
		MoveWaitDoor:    "WAIT_DOOR",
		MoveStopAnim3DS: "STOP_ANIM_3DS",
		MoveWaitAnim3DS: "WAIT_ANIM_3DS",
	})

	register(e, shape(u8()), map[byte]string{
		MoveBody:         "BODY",
		MoveGotoPoint:    "GOTO_POINT",
		MovePosPoint:     "POS_POINT",
		MoveGotoSymPoint: "GOTO_SYM_POINT",
		MoveGotoPoint3D:  "GOTO_POINT_3D",
		MoveBackground:   "BACKGROUND",
		MoveSetFrame:     "SET_FRAME",
		MoveSetFrame3DS:  "SET_FRAME_3DS",
		MoveSetStart3DS:  "SET_START_3DS",
		MoveSetEnd3DS:    "SET_END_3DS",
		MoveStartAnim3DS: "START_ANIM_3DS",
		MoveWaitFrame3DS: "WAIT_FRAME_3DS",
		MoveVolume:       "VOLUME",
	})

	register(e, shape(i16()), map[byte]string{
		MoveAngle:        "ANGLE",
		MoveSample:       "SAMPLE",
		MoveSpeed:        "SPEED",
		MoveBeta:         "BETA",
		MoveOpenLeft:     "OPEN_LEFT",
		MoveOpenRight:    "OPEN_RIGHT",
		MoveOpenUp:       "OPEN_UP",
		MoveOpenDown:     "OPEN_DOWN",
		MoveSampleRnd:    "SAMPLE_RND",
		MoveSampleAlways: "SAMPLE_ALWAYS",
		MoveSampleStop:   "SAMPLE_STOP",
		MoveRepeatSample: "REPEAT_SAMPLE",
		MoveSimpleSample: "SIMPLE_SAMPLE",
		MoveFaceTwinsen:  "FACE_TWINSEN",
		MoveSprite:       "SPRITE",
		MoveDecalage:     "DECALAGE",
		MoveFrequence:    "FREQUENCE",
	})

	register(e, shape(u8(), zeroTimer()), map[byte]string{
		MoveWaitNbSecond:     "WAIT_NB_SECOND",
		MoveWaitNbDizieme:    "WAIT_NB_DIZIEME",
		MoveWaitNbSecondRnd:  "WAIT_NB_SECOND_RND",
		MoveWaitNbDiziemeRnd: "WAIT_NB_DIZIEME_RND",
	})

	e[MoveAnim] = Entry{Name: "ANIM", Shape: shape(u16())}
	e[MoveWaitNbAnim] = Entry{Name: "WAIT_NB_ANIM", Shape: shape(u8(), u8())}
	e[MoveAngleRnd] = Entry{Name: "ANGLE_RND", Shape: shape(i16(), i16())}
	e[MovePlayAcf] = Entry{Name: "PLAY_ACF", Shape: shape(str())}

	return &Table{
		Family:      "move",
		Unsupported: "This opcode is not supported for Ida move operations: %d",
		Terminated:  true,
		Terminator:  MoveEnd,
		entries:     e,
		names: map[byte]string{
			MoveEnd:      "END",
			MoveNop:      "NOP",
			MoveLoop:     "LOOP",
			MoveLabel:    "LABEL",
			MoveGoto:     "GOTO",
			MoveStop:     "STOP",
			MoveRem:      "REM",
			MoveDo:       "DO",
			MoveAffTimer: "AFF_TIMER",
		},
	}
}

var persistentMoves = map[byte]bool{
	MoveAngle:            true,
	MoveFaceTwinsen:      true,
	MoveWaitNbAnim:       true,
	MoveWaitNbDizieme:    true,
	MoveWaitNbSecond:     true,
	MoveAngleRnd:         true,
	MoveWaitNbDiziemeRnd: true,
	MoveWaitNbSecondRnd:  true,
	MoveLoop:             true,
}

// IsPersistentMove reports whether a move opcode keeps its progress inside
// the instruction buffer. The buffer of such an opcode must be handed back to
// the script after every continuation so it can be saved.
func IsPersistentMove(opcode byte) bool {
	return persistentMoves[opcode]
}

// FamilyNamed returns the table whose Family is name: life, lifef or move.
func FamilyNamed(name string) (*Table, bool) {
	for _, t := range []*Table{Life, LifeFunction, Move} {
		if t.Family == name {
			return t, true
		}
	}
	return nil, false
}
