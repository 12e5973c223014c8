package phy

import (
	"fmt"
	"sync"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// SimBus is an in-memory MII bus with clause 22 register behaviour for
// the PHYs added to it. Reads from empty addresses return 0xffff.
type SimBus struct {
	mu   sync.Mutex
	phys map[uint8]*simPHY
}

type simPHY struct {
	id        uint32
	abilities uint16
	partner   uint16
	linkUp    bool

	bmcr      uint16
	advertise uint16
	lpa       uint16
	anDone    bool

	mmdCtrl uint16
	mmdAddr uint16
	mmd     map[uint32]uint16
}

// NewSimBus creates an empty bus.
func NewSimBus() *SimBus {
	return &SimBus{phys: make(map[uint8]*simPHY)}
}

// AddPHY attaches a PHY with identifier id at addr. abilities holds the
// BMSR ability bits (BMSR10Half ... BMSR100Full).
func (s *SimBus) AddPHY(addr uint8, id uint32, abilities uint16) error {
	if addr > MaxAddr {
		return fmt.Errorf("%w: address %d", errcode.ErrInvalidArgument, addr)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.phys[addr]; ok {
		return fmt.Errorf("address %d: %w", addr, errcode.ErrBusy)
	}
	p := &simPHY{id: id, abilities: abilities & bmsrAbilityMask, mmd: make(map[uint32]uint16)}
	p.reset()
	s.phys[addr] = p
	return nil
}

// SetLink connects or disconnects the link partner at addr. partner holds
// the partner's advertisement bits, reported in LPA once autonegotiation
// completes.
func (s *SimBus) SetLink(addr uint8, up bool, partner uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.phys[addr]
	if !ok {
		return fmt.Errorf("address %d: %w", addr, errcode.ErrNoDevice)
	}
	p.linkUp = up
	p.partner = partner
	if !up {
		p.anDone = false
		p.lpa = 0
	} else if p.bmcr&BMCRANEnable != 0 {
		p.negotiate()
	}
	return nil
}

// Read implements MII.
func (s *SimBus) Read(addr uint8, reg uint16) (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.phys[addr]
	if !ok {
		return 0xffff, nil
	}
	return p.read(reg), nil
}

// Write implements MII. Writes to empty addresses are dropped.
func (s *SimBus) Write(addr uint8, reg, val uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.phys[addr]
	if !ok {
		return nil
	}
	p.write(reg, val)
	return nil
}

func (p *simPHY) reset() {
	p.bmcr = BMCRANEnable
	p.advertise = AdvertiseCSMA | advertiseAll
	p.lpa = 0
	p.anDone = false
}

func (p *simPHY) link() bool {
	return p.linkUp && p.bmcr&(BMCRPowerDown|BMCRIsolate) == 0
}

func (p *simPHY) negotiate() {
	if !p.link() {
		return
	}
	p.lpa = p.partner
	p.anDone = true
}

func (p *simPHY) read(reg uint16) uint16 {
	switch reg {
	case RegBMCR:
		return p.bmcr
	case RegBMSR:
		v := p.abilities | BMSRANCapable
		if p.link() && (p.bmcr&BMCRANEnable == 0 || p.anDone) {
			v |= BMSRLinkStatus
		}
		if p.anDone {
			v |= BMSRANComplete
		}
		return v
	case RegPHYSID1:
		return uint16(p.id >> 16)
	case RegPHYSID2:
		return uint16(p.id)
	case RegAdvertise:
		return p.advertise
	case RegLPA:
		return p.lpa
	case RegMMDCtrl:
		return p.mmdCtrl
	case RegMMDData:
		if p.mmdCtrl&MMDCtrlNoIncr == 0 {
			return p.mmdAddr
		}
		return p.mmd[p.mmdKey()]
	default:
		return 0
	}
}

func (p *simPHY) write(reg, val uint16) {
	switch reg {
	case RegBMCR:
		if val&BMCRReset != 0 {
			p.reset()
			return
		}
		p.bmcr = val &^ BMCRANRestart
		if p.bmcr&BMCRANEnable == 0 {
			p.anDone = false
			p.lpa = 0
		} else if val&BMCRANRestart != 0 {
			p.anDone = false
			p.negotiate()
		}
	case RegAdvertise:
		p.advertise = val
	case RegMMDCtrl:
		p.mmdCtrl = val
	case RegMMDData:
		if p.mmdCtrl&MMDCtrlNoIncr == 0 {
			p.mmdAddr = val
			return
		}
		p.mmd[p.mmdKey()] = val
	}
}

func (p *simPHY) mmdKey() uint32 {
	return uint32(p.mmdCtrl&MMDCtrlDevAdMask)<<16 | uint32(p.mmdAddr)
}

// Compile-time interface satisfaction check.
var _ MII = (*SimBus)(nil)
