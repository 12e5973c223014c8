package of

// boardYAML and boardHCL describe the same tree.
const boardYAML = `
compatible: vendor,board
intc:
  compatible: arm,gic-400
  "#interrupt-cells": 3
  interrupt-controller: true
  phandle: 1
soc:
  compatible: simple-bus
  interrupt-parent: 1
  uart@1000:
    compatible: ["vendor,uart", "ns16550"]
    interrupts: [0, 33, 4]
  i2c@2000:
    compatible: snps,designware-i2c
    interrupts: [0, 0x25, 4]
    status: disabled
  memory:
    reg: [0x80000000, 0x1000]
`

const boardHCL = `
compatible = "vendor,board"

node "intc" {
  compatible = "arm,gic-400"
  properties = {
    "#interrupt-cells" = 3
  }
  interrupt-controller = true
  phandle              = 1
}

node "soc" {
  compatible       = "simple-bus"
  interrupt-parent = 1

  node "uart@1000" {
    compatible = ["vendor,uart", "ns16550"]
    interrupts = [0, 32 + 1, 4]
  }

  node "i2c@2000" {
    compatible = "snps,designware-i2c"
    interrupts = [0, 37, 4]
    status     = "disabled"
  }

  node "memory" {
    reg = [2147483648, 4096]
  }
}
`
