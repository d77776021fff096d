package netsynth

import (
	"fmt"

	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Plugin tags of the generated adapter modules.
const (
	QueueToNetworkPlugin = "QueueToNetwork"
	NetworkToQueuePlugin = "NetworkToQueue"
	AdapterInputSlot     = "input"
	AdapterOutputSlot    = "output"
)

// Transport plugin names written into the adapter payloads.
const (
	ipmSender     = "ZmqSender"
	ipmPublisher  = "ZmqPublisher"
	ipmReceiver   = "ZmqReceiver"
	ipmSubscriber = "ZmqSubscriber"
)

func topicsVal(topics []string) cty.Value {
	if len(topics) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, 0, len(topics))
	for _, t := range topics {
		vals = append(vals, cty.StringVal(t))
	}
	return cty.ListVal(vals)
}

// senderConf builds the QueueToNetwork payload for nc.
func senderConf(nc model.NetworkConnection, address string) cty.Value {
	var plugin string
	var topics []string
	switch c := nc.(type) {
	case model.Sender:
		plugin = ipmSender
	case model.Publisher:
		plugin = ipmPublisher
		topics = c.Topics
	default:
		panic(fmt.Sprintf("unhandled network connection type %T", nc))
	}
	msg := nc.Message()
	return cty.ObjectVal(map[string]cty.Value{
		"msg_type":        cty.StringVal(msg.MsgType),
		"msg_module_name": cty.StringVal(msg.MsgModuleName),
		"sender_config": cty.ObjectVal(map[string]cty.Value{
			"ipm_plugin_type": cty.StringVal(plugin),
			"address":         cty.StringVal(address),
			"topics":          topicsVal(topics),
		}),
	})
}

// receiverConf builds the NetworkToQueue payload for nc.
func receiverConf(nc model.NetworkConnection, address string) cty.Value {
	var plugin string
	var topics []string
	switch c := nc.(type) {
	case model.Sender:
		plugin = ipmReceiver
	case model.Publisher:
		plugin = ipmSubscriber
		topics = c.Topics
	default:
		panic(fmt.Sprintf("unhandled network connection type %T", nc))
	}
	msg := nc.Message()
	return cty.ObjectVal(map[string]cty.Value{
		"msg_type":        cty.StringVal(msg.MsgType),
		"msg_module_name": cty.StringVal(msg.MsgModuleName),
		"receiver_config": cty.ObjectVal(map[string]cty.Value{
			"ipm_plugin_type": cty.StringVal(plugin),
			"address":         cty.StringVal(address),
			"subscriptions":   topicsVal(topics),
		}),
	})
}
