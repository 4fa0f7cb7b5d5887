package scaffold

// Exit codes the driver uses to classify candidate program outcomes. The
// normalizer in internal/execute maps these back to ExecutionResult fields.
const (
	ExitOK          = 0
	ExitFault       = 1
	ExitBadReturn   = 3
	ExitMissingSym  = 4
	ExitTimeoutCode = 124
)

// shimSource is llm_executor.py: the single callable a candidate program may
// import to reach the model. It posts to the Model Call Gateway on the host;
// every request is therefore logged and metered before the candidate sees the
// response. Backend failures surface as exceptions the candidate must handle.
const shimSource = `import json
import os
import urllib.request
import urllib.error


def execute_llm(prompt, system_prompt=None):
    """Send a prompt to the executor model and return its response text."""
    url = os.environ["GAUNTLET_GATEWAY_URL"] + "/v1/execute"
    body = json.dumps({
        "prompt": prompt,
        "system_prompt": system_prompt or "",
    }).encode("utf-8")
    req = urllib.request.Request(
        url, data=body, headers={"Content-Type": "application/json"}
    )
    try:
        with urllib.request.urlopen(req) as resp:
            payload = json.loads(resp.read().decode("utf-8"))
    except urllib.error.HTTPError as e:
        detail = e.read().decode("utf-8", errors="replace")
        raise RuntimeError("model call failed (%d): %s" % (e.code, detail))
    return payload["response"]
`

// driverSource is run_scaffold.py: loads the input payload, imports the
// candidate entry point, and prints the returned string on stdout. Candidate
// logs and fault tracebacks go to stderr. Outcomes map to distinct exit codes.
const driverSource = `import logging
import os
import sys
import traceback

logging.basicConfig(
    level=getattr(logging, os.environ.get("LOG_LEVEL", "INFO").upper(), logging.INFO),
    format="%(asctime)s [%(levelname)s] %(message)s",
    stream=sys.stderr,
)

with open("/workspace/input.txt", "r") as f:
    input_string = f.read()

logging.info("Running scaffold execution")
logging.info("Input length: %d characters", len(input_string))

sys.path.insert(0, "/workspace")
try:
    from scaffold import process_input
except Exception:
    traceback.print_exc()
    sys.exit(4)

try:
    result = process_input(input_string)
except Exception:
    traceback.print_exc()
    sys.exit(1)

if not isinstance(result, str):
    print("process_input returned %s, expected str" % type(result).__name__, file=sys.stderr)
    sys.exit(3)

sys.stdout.write(result)
`
