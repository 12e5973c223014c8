package phy

import (
	"fmt"
	"sync"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// Device is a PHY at one address of an MII bus.
//
// The register accessors go straight to the bus. The state fields are
// updated by the generic helpers and by drivers through the setters.
type Device struct {
	mii   MII
	addr  uint8
	name  string
	phyID uint32

	mu          sync.Mutex
	drv         *VTable
	state       DeviceState
	supported   Features
	advertising Features
	speed       uint32
	duplex      DuplexMode
	link        bool
	autoneg     bool
	anComplete  bool
	suspended   bool
}

// NewDevice creates a device for the PHY with identifier phyID at addr.
// The device is named "<busID>:<addr>" with a two-digit hex address.
func NewDevice(mii MII, busID string, addr uint8, phyID uint32) *Device {
	return &Device{
		mii:     mii,
		addr:    addr,
		name:    fmt.Sprintf("%s:%02x", busID, addr),
		phyID:   phyID,
		autoneg: true,
	}
}

// DeviceName returns the bus-unique device name.
func (d *Device) DeviceName() string { return d.name }

// Addr returns the MDIO address.
func (d *Device) Addr() uint8 { return d.addr }

// PhyID returns the identifier read from PHYSID1/PHYSID2.
func (d *Device) PhyID() uint32 { return d.phyID }

// MatchID reports whether the device's identifier is covered by id.
func (d *Device) MatchID(id DeviceID) bool {
	return id.Match(d.phyID)
}

// Read reads a clause 22 register.
func (d *Device) Read(reg uint16) (uint16, error) {
	v, err := d.mii.Read(d.addr, reg)
	if err != nil {
		return 0, fmt.Errorf("%s: read reg 0x%02x: %w", d.name, reg, err)
	}
	return v, nil
}

// Write writes a clause 22 register.
func (d *Device) Write(reg, val uint16) error {
	if err := d.mii.Write(d.addr, reg, val); err != nil {
		return fmt.Errorf("%s: write reg 0x%02x: %w", d.name, reg, err)
	}
	return nil
}

// Modify clears mask and sets set in reg. The register is only written
// when its value changes.
func (d *Device) Modify(reg, mask, set uint16) error {
	old, err := d.Read(reg)
	if err != nil {
		return err
	}
	val := old&^mask | set
	if val == old {
		return nil
	}
	return d.Write(reg, val)
}

// Driver returns the name of the bound driver, or "" when unbound.
func (d *Device) Driver() string {
	if vt := d.driver(); vt != nil {
		return vt.Name
	}
	return ""
}

// State returns the state machine state.
func (d *Device) State() DeviceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Speed returns the link speed in Mbit/s, or SpeedUnknown.
func (d *Device) Speed() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speed
}

// SetSpeed sets the forced speed used when autonegotiation is disabled.
func (d *Device) SetSpeed(speed uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speed = speed
}

// Duplex returns the duplex mode.
func (d *Device) Duplex() DuplexMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.duplex
}

// SetDuplex sets the forced duplex used when autonegotiation is
// disabled.
func (d *Device) SetDuplex(mode DuplexMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.duplex = mode
}

// SetAutoneg enables or disables autonegotiation for the next
// ConfigAneg.
func (d *Device) SetAutoneg(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.autoneg = on
}

// IsLinkUp reports the link state from the last status read.
func (d *Device) IsLinkUp() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.link
}

// IsAutonegEnabled reports whether autonegotiation is enabled.
func (d *Device) IsAutonegEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.autoneg
}

// IsAutonegCompleted reports whether the last status read saw
// autonegotiation complete.
func (d *Device) IsAutonegCompleted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.anComplete
}

// IsSuspended reports whether the bound driver suspended the device.
func (d *Device) IsSuspended() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.suspended
}

// Supported returns the link modes the PHY supports.
func (d *Device) Supported() Features {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.supported
}

// Advertising returns the link modes advertised to the link partner.
func (d *Device) Advertising() Features {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.advertising
}

// SetSupported sets the supported link modes and advertises all of them.
// GetFeatures implementations call it.
func (d *Device) SetSupported(f Features) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supported = f
	d.advertising = f
	d.autoneg = f.Has(FeatureAutoneg)
}

// SoftReset resets the PHY using the driver's SoftReset or
// GenphySoftReset.
func (d *Device) SoftReset() error {
	if vt := d.driver(); vt != nil && vt.SoftReset != nil {
		return vt.SoftReset(d)
	}
	return GenphySoftReset(d)
}

// ConfigAneg programs the advertisement and restarts autonegotiation
// using the driver's ConfigAneg or GenphyConfigAneg.
func (d *Device) ConfigAneg() error {
	if vt := d.driver(); vt != nil && vt.ConfigAneg != nil {
		return vt.ConfigAneg(d)
	}
	return GenphyConfigAneg(d)
}

// ReadStatus refreshes link, speed and duplex using the driver's
// ReadStatus or GenphyReadStatus.
func (d *Device) ReadStatus() error {
	if vt := d.driver(); vt != nil && vt.ReadStatus != nil {
		return vt.ReadStatus(d)
	}
	return GenphyReadStatus(d)
}

// ReadMMD reads register regnum of MMD devnum using the driver's ReadMMD
// or indirect access through the MMD control registers.
func (d *Device) ReadMMD(devnum uint8, regnum uint16) (uint16, error) {
	if vt := d.driver(); vt != nil && vt.ReadMMD != nil {
		return vt.ReadMMD(d, devnum, regnum)
	}
	if err := d.mmdSelect(devnum, regnum); err != nil {
		return 0, err
	}
	return d.Read(RegMMDData)
}

// WriteMMD writes register regnum of MMD devnum using the driver's
// WriteMMD or indirect access through the MMD control registers.
func (d *Device) WriteMMD(devnum uint8, regnum, val uint16) error {
	if vt := d.driver(); vt != nil && vt.WriteMMD != nil {
		return vt.WriteMMD(d, devnum, regnum, val)
	}
	if err := d.mmdSelect(devnum, regnum); err != nil {
		return err
	}
	return d.Write(RegMMDData, val)
}

func (d *Device) mmdSelect(devnum uint8, regnum uint16) error {
	devad := uint16(devnum) & MMDCtrlDevAdMask
	if err := d.Write(RegMMDCtrl, devad); err != nil {
		return err
	}
	if err := d.Write(RegMMDData, regnum); err != nil {
		return err
	}
	return d.Write(RegMMDCtrl, devad|MMDCtrlNoIncr)
}

// Start brings a bound PHY up and starts autonegotiation.
func (d *Device) Start() error {
	vt := d.driver()
	if vt == nil {
		return fmt.Errorf("%s: %w", d.name, errcode.ErrNoDevice)
	}
	switch st := d.State(); st {
	case StateReady, StateHalted:
	default:
		return fmt.Errorf("%s: start in state %s: %w", d.name, st, errcode.ErrBusy)
	}

	if vt.Flags.Has(ResetAfterClockEnable) {
		if err := d.SoftReset(); err != nil {
			d.setState(StateError)
			return err
		}
	}
	if err := d.ConfigAneg(); err != nil {
		d.setState(StateError)
		return err
	}
	d.setState(StateUp)
	return nil
}

// Stop halts a started PHY. The link is reported down.
func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateDown {
		return
	}
	d.state = StateHalted
	d.link = false
}

// Poll reads the status of a started PHY and moves it between Running
// and NoLink. It reports whether the link state changed; the driver's
// LinkChangeNotify runs on every change.
func (d *Device) Poll() (bool, error) {
	switch st := d.State(); st {
	case StateUp, StateRunning, StateNoLink:
	default:
		return false, fmt.Errorf("%s: poll in state %s: %w", d.name, st, errcode.ErrInvalidArgument)
	}

	was := d.IsLinkUp()
	if err := d.ReadStatus(); err != nil {
		d.setState(StateError)
		return false, err
	}

	d.mu.Lock()
	up := d.link
	if up {
		d.state = StateRunning
	} else {
		d.state = StateNoLink
	}
	d.mu.Unlock()

	changed := up != was
	if changed {
		if vt := d.driver(); vt != nil && vt.LinkChangeNotify != nil {
			vt.LinkChangeNotify(d)
		}
	}
	return changed, nil
}

func (d *Device) String() string {
	return d.name
}

func (d *Device) driver() *VTable {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drv
}

func (d *Device) setState(s DeviceState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
}

func (d *Device) setLink(link, anComplete bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.link = link
	d.anComplete = anComplete
}

func (d *Device) setResolved(speed uint32, duplex DuplexMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speed = speed
	d.duplex = duplex
}

func (d *Device) setSuspended(s bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suspended = s
}

// attach binds vt and reads the PHY's abilities.
func (d *Device) attach(vt *VTable) error {
	d.mu.Lock()
	if d.drv != nil {
		d.mu.Unlock()
		return fmt.Errorf("%s: bound to %s: %w", d.name, d.drv.Name, errcode.ErrBusy)
	}
	d.drv = vt
	d.mu.Unlock()

	var err error
	if vt.GetFeatures != nil {
		err = vt.GetFeatures(d)
	} else {
		err = GenphyReadAbilities(d)
	}
	if err != nil {
		d.detach()
		return err
	}
	d.setState(StateReady)
	return nil
}

func (d *Device) detach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drv = nil
	d.state = StateDown
	d.link = false
	d.anComplete = false
	d.suspended = false
	d.speed = SpeedUnknown
	d.duplex = DuplexUnknown
}
