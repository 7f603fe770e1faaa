package bytecode

// Move (track) opcodes.
const (
	MoveEnd              byte = 0
	MoveNop              byte = 1
	MoveBody             byte = 2
	MoveAnim             byte = 3
	MoveGotoPoint        byte = 4
	MoveWaitAnim         byte = 5
	MoveLoop             byte = 6
	MoveAngle            byte = 7
	MovePosPoint         byte = 8
	MoveLabel            byte = 9
	MoveGoto             byte = 10
	MoveStop             byte = 11
	MoveGotoSymPoint     byte = 12
	MoveWaitNbAnim       byte = 13
	MoveSample           byte = 14
	MoveGotoPoint3D      byte = 15
	MoveSpeed            byte = 16
	MoveBackground       byte = 17
	MoveWaitNbSecond     byte = 18
	MoveNoBody           byte = 19
	MoveBeta             byte = 20
	MoveOpenLeft         byte = 21
	MoveOpenRight        byte = 22
	MoveOpenUp           byte = 23
	MoveOpenDown         byte = 24
	MoveClose            byte = 25
	MoveWaitDoor         byte = 26
	MoveSampleRnd        byte = 27
	MoveSampleAlways     byte = 28
	MoveSampleStop       byte = 29
	MovePlayAcf          byte = 30
	MoveRepeatSample     byte = 31
	MoveSimpleSample     byte = 32
	MoveFaceTwinsen      byte = 33
	MoveAngleRnd         byte = 34
	MoveRem              byte = 35
	MoveWaitNbDizieme    byte = 36
	MoveDo               byte = 37
	MoveSprite           byte = 38
	MoveWaitNbSecondRnd  byte = 39
	MoveAffTimer         byte = 40
	MoveSetFrame         byte = 41
	MoveSetFrame3DS      byte = 42
	MoveSetStart3DS      byte = 43
	MoveSetEnd3DS        byte = 44
	MoveStartAnim3DS     byte = 45
	MoveStopAnim3DS      byte = 46
	MoveWaitAnim3DS      byte = 47
	MoveWaitFrame3DS     byte = 48
	MoveWaitNbDiziemeRnd byte = 49
	MoveDecalage         byte = 50
	MoveFrequence        byte = 51
	MoveVolume           byte = 52
)

// Life opcodes.
const (
	LifeEnd                 byte = 0
	LifeNop                 byte = 1
	LifePalette             byte = 10
	LifeReturn              byte = 11
	LifeBody                byte = 17
	LifeBodyObj             byte = 18
	LifeAnim                byte = 19
	LifeAnimObj             byte = 20
	LifeSetCamera           byte = 21
	LifeCameraCenter        byte = 22
	LifeSetTrack            byte = 23
	LifeSetTrackObj         byte = 24
	LifeMessage             byte = 25
	LifeFallable            byte = 26
	LifeSetControl          byte = 27
	LifeSetControlObj       byte = 28
	LifeCamFollow           byte = 29
	LifeComportementHero    byte = 30
	LifeSetComportement     byte = 33
	LifeSetComportementObj  byte = 34
	LifeKillObj             byte = 37
	LifeSuicide             byte = 38
	LifeUseOneLittleKey     byte = 39
	LifeGiveGoldPieces      byte = 40
	LifeEndLife             byte = 41
	LifeStopLTrack          byte = 42
	LifeRestoreLTrack       byte = 43
	LifeMessageObj          byte = 44
	LifeIncChapter          byte = 45
	LifeFoundObject         byte = 46
	LifeSetDoorLeft         byte = 47
	LifeSetDoorRight        byte = 48
	LifeSetDoorUp           byte = 49
	LifeSetDoorDown         byte = 50
	LifeGiveBonus           byte = 51
	LifeChangeCube          byte = 52
	LifeObjCol              byte = 53
	LifeBrickCol            byte = 54
	LifeInvisible           byte = 56
	LifeShadowObj           byte = 57
	LifePosPoint            byte = 58
	LifeSetMagicLevel       byte = 59
	LifeSubMagicPoint       byte = 60
	LifeSetLifePointObj     byte = 61
	LifeSubLifePointObj     byte = 62
	LifeHitObj              byte = 63
	LifePlayAcf             byte = 64
	LifeEclair              byte = 65
	LifeIncCloverBox        byte = 66
	LifeSetUsedInventory    byte = 67
	LifeAddChoice           byte = 68
	LifeAskChoice           byte = 69
	LifeInitBuggy           byte = 70
	LifeMemoArdoise         byte = 71
	LifeSetHoloPos          byte = 72
	LifeClrHoloPos          byte = 73
	LifeSetGrm              byte = 76
	LifeSetChangeCube       byte = 77
	LifeMessageZoe          byte = 78
	LifeFullPoint           byte = 79
	LifeBeta                byte = 80
	LifeFadeToPal           byte = 81
	LifeAction              byte = 82
	LifeSetFrame            byte = 83
	LifeSetSprite           byte = 84
	LifeSetFrame3DS         byte = 85
	LifeImpactObj           byte = 86
	LifeImpactPoint         byte = 87
	LifeBulle               byte = 89
	LifeNoChoc              byte = 90
	LifeAskChoiceObj        byte = 91
	LifeCinemaMode          byte = 92
	LifeSaveHero            byte = 93
	LifeRestoreHero         byte = 94
	LifeAnimSet             byte = 95
	LifePluie               byte = 96
	LifeGameOver            byte = 97
	LifeTheEnd              byte = 98
	LifeEscalator           byte = 99
	LifePlayMusic           byte = 100
	LifeTrackToVarGame      byte = 101
	LifeVarGameToTrack      byte = 102
	LifeAnimTexture         byte = 103
	LifeBrutalExit          byte = 105
	LifeEchelle             byte = 107
	LifeSetArmure           byte = 108
	LifeSetArmureObj        byte = 109
	LifeAddLifePointObj     byte = 110
	LifeStateInventory      byte = 111
	LifeSetHitZone          byte = 119
	LifeSaveComportement    byte = 120
	LifeRestoreComportement byte = 121
	LifeSample              byte = 122
	LifeSampleRnd           byte = 123
	LifeSampleAlways        byte = 124
	LifeSampleStop          byte = 125
	LifeRepeatSample        byte = 126
	LifeBackground          byte = 127
	LifeSetRail             byte = 133
	LifeInverseBeta         byte = 134
	LifeNoBody              byte = 135
	LifeAddGoldPieces       byte = 136
	LifeStopLTrackObj       byte = 137
	LifeRestoreLTrackObj    byte = 138
	LifeSaveComportementObj byte = 139
	LifeRestoreComportObj   byte = 140
	LifeFlowPoint           byte = 145
	LifeFlowObj             byte = 146
	LifeSetAnimDial         byte = 147
	LifePcx                 byte = 148
	LifeParmSample          byte = 151
	LifeNewSample           byte = 152
	LifePosObjAround        byte = 153
	LifePcxMessObj          byte = 154
)

// Life function (condition) opcodes.
const (
	FuncCol              byte = 0
	FuncColObj           byte = 1
	FuncDistance         byte = 2
	FuncZone             byte = 3
	FuncZoneObj          byte = 4
	FuncLTrack           byte = 9
	FuncLTrackObj        byte = 10
	FuncConeView         byte = 12
	FuncHitBy            byte = 13
	FuncAction           byte = 14
	FuncComportementHero byte = 20
	FuncDistance3D       byte = 22
	FuncUseInventory     byte = 25
	FuncChoice           byte = 26
	FuncCarryBy          byte = 28
	FuncEchelle          byte = 30
	FuncRail             byte = 32
	FuncCarryObjBy       byte = 35
	FuncAngle            byte = 36
	FuncDistanceMessage  byte = 37
	FuncHitObjBy         byte = 38
	FuncRealAngle        byte = 39
	FuncColDecors        byte = 41
	FuncColDecorsObj     byte = 42
	FuncObjectDisplayed  byte = 44
	FuncAngleObj         byte = 45
)

// Movement modes that take a trailing actor argument in SET_CONTROL.
const (
	ModeFollow  = 2
	ModeCircle  = 9
	ModeCircle2 = 10
)

// Game variable slots with special meaning.
const (
	FlagMoney       = 8
	FlagACF         = 235
	FlagACF2        = 236
	FlagACF3        = 237
	FlagEsc         = 249
	FlagClover      = 251
	FlagChapter     = 253
	FlagPlanetEsmer = 254
	FlagDontUse     = 255
)
