package integration_tests

import "fmt"

const dataflowHCL = `
system {
  required_connections = ["trigger.decisions"]
}

app "dataflow" {
  host = "df01"

  module "trb" {
    plugin = "TriggerRecordBuilder"
    conf   = { general_queue_timeout = 100 }
    connection "trigger_record_output" {
      to = "dw.trigger_record_input"
    }
  }

  module "dw" {
    plugin = "DataWriter"
    conf   = { directory_path = "/tmp" }
  }

  endpoint "trigger_decisions" {
    internal  = "trb.trigger_decision_input"
    direction = "in"
  }

  endpoint "tokens" {
    internal  = "dw.token_output"
    direction = "out"
  }
}

connection "dataflow.tokens" {
  to       = ["trigger.tokens"]
  msg_type = "dfmessages::TriggerDecisionToken"
  toposort = false
}
`

const triggerAppHCL = `
app "trigger" {
  host     = "trg01"
  pausable = true

  module "mlt" {
    plugin = "ModuleLevelTrigger"
    resume = { trigger_interval_ticks = 62500000 }
  }

  endpoint "decisions" {
    internal  = "mlt.trigger_decision_output"
    direction = "out"
  }
  endpoint "tokens" {
    internal  = "mlt.token_input"
    direction = "in"
  }
  endpoint "timesync" {
    internal  = "mlt.timesync_input"
    direction = "in"
  }
}
`

const decisionsHCL = `
connection "trigger.decisions" {
  to              = ["dataflow.trigger_decisions"]
  msg_type        = "dfmessages::TriggerDecision"
  msg_module_name = "TriggerDecisionNQ"
}
`

const triggerHCL = triggerAppHCL + decisionsHCL

// readoutHCL renders one readout application with a single TPC producer.
func readoutHCL(i int) string {
	return fmt.Sprintf(`
app "ru%[1]d" {
  host = "ru%02[1]d"

  module "card" {
    plugin = "FakeCardReader"
    connection "output" {
      to = "dlh.raw_input"
    }
  }

  module "dlh" {
    plugin = "DataLinkHandler"
  }

  endpoint "timesync" {
    internal  = "dlh.timesync_output"
    direction = "out"
  }

  fragment_producer {
    system_type   = "TPC"
    element       = %[1]d
    requests_in   = "dlh.data_requests_0"
    fragments_out = "dlh.fragments"
  }
}

connection "ru%[1]d.timesync" {
  type     = "publisher"
  to       = ["trigger.timesync"]
  topics   = ["Timesync"]
  msg_type = "dfmessages::TimeSync"
}
`, i)
}

// deploymentFiles lays the deployment out over several files and directories.
func deploymentFiles(readouts int) map[string]string {
	files := map[string]string{
		"dataflow.hcl":      dataflowHCL,
		"trigger/main.hcl":  triggerHCL,
		"readout/README.md": "not a description file",
	}
	for i := range readouts {
		files[fmt.Sprintf("readout/ru%d.hcl", i)] = readoutHCL(i)
	}
	return files
}
